// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/helix-chain/helix/chain"
	"github.com/helix-chain/helix/genesis"
	"github.com/helix-chain/helix/lvldb"
	"github.com/helix-chain/helix/state"
)

const logLevelInfo = 3

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".helix")
}

func initLogger(ctx *cli.Context) zerolog.Logger {
	level := zerolog.Level(5 - ctx.Int(verbosityFlag.Name)) //nolint:gosec
	if level < zerolog.TraceLevel {
		level = zerolog.TraceLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	network := ctx.String(networkFlag.Name)
	if network == "dev" {
		return genesis.NewDevnet(), nil
	}
	data, err := os.ReadFile(network)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return genesis.FromJSON(data)
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.New("unable to infer default data dir, use -data-dir")
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.Config.NetworkID))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrap(err, "create instance dir")
	}
	return instanceDir, nil
}

func openMainDB(instanceDir string) (*lvldb.LevelDB, error) {
	db, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	return db, nil
}

// initChain commits the genesis block unless the chain already has a
// head, and returns the repository.
func initChain(gene *genesis.Genesis, db *lvldb.LevelDB, logger zerolog.Logger) (*chain.Repository, error) {
	repo := chain.NewRepository(db)
	if _, err := repo.BestBlock(); err == nil {
		return repo, nil
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	stater := state.NewStater(db)
	blk, stage, err := gene.Build(stater)
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	if err := stater.Commit(stage); err != nil {
		return nil, err
	}
	if err := repo.SaveBlock(blk); err != nil {
		return nil, err
	}
	if err := repo.SetBestBlockID(blk.Header().ID()); err != nil {
		return nil, err
	}
	logger.Info().
		Stringer("id", blk.Header().ID()).
		Hex("network", []byte{gene.Config.NetworkID}).
		Msg("genesis block committed")
	return repo, nil
}
