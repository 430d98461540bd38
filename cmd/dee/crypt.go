package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/drand/dee/dee"
	"github.com/drand/dee/timelock"
)

var encryptFlag = &cli.BoolFlag{Name: "encrypt", Aliases: []string{"e"}, Usage: "encrypt (default)"}
var decryptFlag = &cli.BoolFlag{Name: "decrypt", Aliases: []string{"d"}, Usage: "decrypt"}
var roundExprFlag = &cli.StringFlag{Name: "round", Aliases: []string{"r"}, Usage: "round number, duration (N[smhd]), or RFC3339 timestamp to encrypt towards"}
var armorFlag = &cli.BoolFlag{Name: "armor", Aliases: []string{"a"}, Usage: "wrap output in ASCII armor"}
var outFlag = &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"}
var inspectFlag = &cli.BoolFlag{Name: "inspect", Aliases: []string{"i"}, Usage: "print the target round and chain hash without decrypting"}

var cryptCommand = &cli.Command{
	Name:      "crypt",
	Usage:     "timelock-encrypt or decrypt a file against a beacon round",
	ArgsUsage: "[IN]",
	Flags:     []cli.Flag{encryptFlag, decryptFlag, remoteFlag, roundExprFlag, armorFlag, outFlag, inspectFlag},
	Action:    runCrypt,
}

func runCrypt(c *cli.Context) error {
	switch {
	case c.Bool("inspect"):
		return runHeader(c)
	case c.Bool("decrypt"):
		return runDecrypt(c)
	default:
		return runEncrypt(c)
	}
}

func openInput(c *cli.Context) (io.ReadCloser, error) {
	if c.Args().Len() == 0 || c.Args().First() == "-" {
		return io.NopCloser(c.App.Reader), nil
	}
	return os.Open(c.Args().First())
}

func openOutput(c *cli.Context) (io.WriteCloser, error) {
	if !c.IsSet(outFlag.Name) || c.String("out") == "-" {
		return nopWriteCloser{c.App.Writer}, nil
	}
	return os.Create(c.String("out"))
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func runEncrypt(c *cli.Context) error {
	if !c.IsSet(roundExprFlag.Name) {
		return errors.New("crypt -e requires -r/--round to name a target round")
	}

	cl, err := newClientFromContext(c)
	if err != nil {
		return err
	}
	info, err := cl.ChainInfo()
	if err != nil {
		return err
	}
	round, err := info.ParseRound(c.String("round"), time.Now())
	if err != nil {
		return err
	}

	in, err := openInput(c)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(c)
	if err != nil {
		return err
	}
	defer out.Close()

	return timelock.Encrypt(out, in, info, round, c.Bool("armor"))
}

func runDecrypt(c *cli.Context) error {
	cl, err := newClientFromContext(c)
	if err != nil {
		return err
	}
	info, err := cl.ChainInfo()
	if err != nil {
		return err
	}

	in, err := openInput(c)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(c)
	if err != nil {
		return err
	}
	defer out.Close()

	br := bufio.NewReader(in)
	err = timelock.Decrypt(out, br, info, cl.Get)

	var tooEarly *dee.TooEarlyError
	if errors.As(err, &tooEarly) {
		fmt.Fprintf(c.App.ErrWriter, "too early: round %d not yet available, estimated at %s\n", tooEarly.Round, tooEarly.EstimatedAt)
		return nil
	}
	return err
}

// runHeader implements the inspection-only path: print the round and chain
// hash a ciphertext names without fetching its beacon.
func runHeader(c *cli.Context) error {
	in, err := openInput(c)
	if err != nil {
		return err
	}
	defer in.Close()

	hdr, err := timelock.DecryptHeader(timelock.Dearmor(in))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "round: %d\nhash:  %x\n", hdr.Round, hdr.Hash)
	return nil
}
