// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

// consensusError marks a block as invalid by consensus rules, as
// opposed to storage failures which are fatal to the node.
type consensusError string

func (err consensusError) Error() string {
	return string(err)
}

// IsConsensusError reports whether the error rejects a block by rule.
func IsConsensusError(err error) bool {
	_, ok := err.(consensusError)
	return ok
}
