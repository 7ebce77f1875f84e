/*
NAME
  modemctl - command-line tool for encoding and decoding acoustic
  modem WAV files.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// modemctl is a command-line wrapper around codec/modem: it turns a
// binary payload into a 16kHz mono float32 WAV file carrying FSK audio
// and recovers the payload from such a WAV file. Four verbs are
// supported: encode, decode, fountain-encode and fountain-decode.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/ausocean/audiomodem/codec/modem"
	"github.com/ausocean/audiomodem/codec/wav"
)

const progName = "modemctl"

func main() {
	log.SetFlags(0)
	log.SetPrefix(progName + ": ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "fountain-encode":
		err = runFountainEncode(os.Args[2:])
	case "fountain-decode":
		err = runFountainDecode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <encode|decode|fountain-encode|fountain-decode> [flags]\n", progName)
}

// runEncode reads in.bin, FSK-encodes it as a single block and writes
// the resulting audio to out.wav.
func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	in := fs.String("in", "input.bin", "file path of payload to encode")
	out := fs.String("out", "output.wav", "file path of output WAV")
	fs.Parse(args)

	payload, err := ioutil.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *in, err)
	}

	enc := modem.NewEncoder()
	samples, err := enc.Encode(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	return writeWAV(*out, samples)
}

// runDecode reads in.wav and writes the recovered payload to out.bin.
func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	in := fs.String("in", "input.wav", "file path of WAV to decode")
	out := fs.String("out", "output.bin", "file path of recovered payload")
	fs.Parse(args)

	samples, err := readWAV(*in)
	if err != nil {
		return err
	}

	dec := modem.NewDecoder()
	payload, err := dec.Decode(samples)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", *in, err)
	}

	if err := ioutil.WriteFile(*out, payload, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	fmt.Println("decoded", len(payload), "bytes to", *out)
	return nil
}

// runFountainEncode reads in.bin and writes a fountain-coded audio
// stream covering it to out.wav.
func runFountainEncode(args []string) error {
	fs := flag.NewFlagSet("fountain-encode", flag.ExitOnError)
	in := fs.String("in", "input.bin", "file path of payload to encode")
	out := fs.String("out", "output.wav", "file path of output WAV")
	blockSize := fs.Int("block-size", 32, "fountain source symbol size in bytes")
	repairRatio := fs.Float64("repair-ratio", 0.5, "fraction of extra repair packets to generate")
	fs.Parse(args)

	payload, err := ioutil.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *in, err)
	}

	cfg := modem.FountainConfig{BlockSize: *blockSize, RepairBlocksRatio: *repairRatio}
	samples, err := modem.EncodeFountain(payload, 0, cfg)
	if err != nil {
		return fmt.Errorf("encoding fountain stream: %w", err)
	}

	return writeWAV(*out, samples)
}

// runFountainDecode reads in.wav and writes the recovered payload to
// out.bin, accumulating fountain packets until the rateless decoder
// succeeds or the timeout expires.
func runFountainDecode(args []string) error {
	fs := flag.NewFlagSet("fountain-decode", flag.ExitOnError)
	in := fs.String("in", "input.wav", "file path of WAV to decode")
	out := fs.String("out", "output.bin", "file path of recovered payload")
	blockSize := fs.Int("block-size", 32, "fountain source symbol size in bytes")
	timeout := fs.Float64("timeout", 10, "decode timeout in seconds, 0 for none")
	fs.Parse(args)

	samples, err := readWAV(*in)
	if err != nil {
		return err
	}

	cfg := modem.FountainConfig{BlockSize: *blockSize, TimeoutSecs: *timeout}
	payload, err := modem.DecodeFountain(samples, modem.AdaptiveThreshold(), cfg)
	if err != nil {
		return fmt.Errorf("fountain decoding %s: %w", *in, err)
	}

	if err := ioutil.WriteFile(*out, payload, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	fmt.Println("fountain decoded", len(payload), "bytes to", *out)
	return nil
}

func writeWAV(path string, samples []float32) error {
	data, err := wav.EncodeFloat32Mono(samples, modem.SampleRate)
	if err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Println("encoded", len(samples), "samples to", path)
	return nil
}

func readWAV(path string) ([]float32, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	samples, rate, err := wav.DecodeFloat32Mono(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if rate != modem.SampleRate {
		return nil, fmt.Errorf("%s: sample rate %d, want %d (resample before decoding)", path, rate, modem.SampleRate)
	}
	return samples, nil
}
