// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Helix",
		Usage:     "Node of the Helix settlement network",
		Copyright: "2024 The Helix developers",
		Flags: []cli.Flag{
			dataDirFlag,
			networkFlag,
			verbosityFlag,
		},
		Commands: []cli.Command{
			{
				Name:  "init",
				Usage: "initialize the chain database with the genesis block",
				Flags: []cli.Flag{
					dataDirFlag,
					networkFlag,
					verbosityFlag,
				},
				Action: initAction,
			},
			{
				Name:  "head",
				Usage: "print the best block of the local chain",
				Flags: []cli.Flag{
					dataDirFlag,
					networkFlag,
					verbosityFlag,
				},
				Action: headAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	logger := initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	db, err := openMainDB(instanceDir)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := initChain(gene, db, logger)
	if err != nil {
		return err
	}
	best, err := repo.BestBlock()
	if err != nil {
		return err
	}
	logger.Info().
		Stringer("genesis", best.Header().ID()).
		Str("dir", instanceDir).
		Msg("chain initialized")
	return nil
}

func headAction(ctx *cli.Context) error {
	logger := initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	db, err := openMainDB(instanceDir)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := initChain(gene, db, logger)
	if err != nil {
		return err
	}
	best, err := repo.BestBlock()
	if err != nil {
		return err
	}
	fmt.Println(best.Header())
	return nil
}
