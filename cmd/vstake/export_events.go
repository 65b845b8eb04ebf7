// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/govledger/vstake/logdb"
)

const exportPageSize = 1000

var outFlag = cli.StringFlag{
	Name:  "out",
	Usage: "file to write the events to, one json object per line (stdout if omitted)",
}

func exportEventsAction(ctx *cli.Context) error {
	initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(ctx.String(dataDirFlag.Name), gene.Name(), "events.db")
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(err, "locate log database")
	}
	logDB, err := logdb.New(path)
	if err != nil {
		return err
	}
	defer logDB.Close()

	out, progress := io.Writer(os.Stdout), false
	if file := ctx.String(outFlag.Name); file != "" {
		f, err := os.Create(file)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer f.Close()
		out, progress = f, true
	}

	n, err := exportEvents(context.Background(), logDB, out, progress)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d events\n", n)
	return nil
}

// exportEvents writes every event of logDB to w as json lines, in call order.
func exportEvents(ctx context.Context, logDB *logdb.LogDB, w io.Writer, progress bool) (int, error) {
	newest, ok, err := logDB.NewestCallNumber()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	var bar *pb.ProgressBar
	if progress {
		bar = pb.New64(int64(newest)).
			SetMaxWidth(90).
			Start()
		defer func() { bar.NotPrint = true }()
	}

	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	count := 0
	for offset := uint64(0); ; offset += exportPageSize {
		events, err := logDB.FilterEvents(ctx, &logdb.EventFilter{
			Options: &logdb.Options{Offset: offset, Limit: exportPageSize},
		})
		if err != nil {
			return count, err
		}
		for _, ev := range events {
			if err := enc.Encode(ev); err != nil {
				return count, err
			}
		}
		count += len(events)
		if bar != nil && len(events) > 0 {
			bar.Set64(int64(events[len(events)-1].CallNumber))
		}
		if len(events) < exportPageSize {
			break
		}
	}
	if err := buf.Flush(); err != nil {
		return count, err
	}
	if bar != nil {
		bar.Finish()
	}
	return count, nil
}
