/*
DESCRIPTION
  Cpenc is a command-line front end for the cinepunk codec: it turns a
  stream of raw packed-RGB frames into a cinepunk bitstream, or reverses
  that conversion back to raw RGB.

LICENSE
  Copyright (C) 2026 the cinepunk authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the cinepunk authors.
*/

// Package main implements cpenc, a command-line encoder/decoder for the
// cinepunk video codec.
package main

import (
	"bufio"
	"flag"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/Wuerfel21/cinepunk"
	"github.com/Wuerfel21/cinepunk/config"
)

// Logging related constants.
const (
	logPath      = "cpenc.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
)

func main() {
	var (
		inPath   = flag.String("in", "-", "input file, or - for stdin")
		outPath  = flag.String("out", "-", "output file, or - for stdout")
		decode   = flag.Bool("decode", false, "decode a cinepunk stream back to raw RGB instead of encoding")
		width    = flag.Uint("width", 0, "source frame width in pixels (required when encoding)")
		height   = flag.Uint("height", 0, "source frame height in pixels (required when encoding)")
		quality  = flag.Uint("quality", 80, "quality factor, 0-100")
		keyEvery = flag.Uint("keyframe-interval", 60, "inter frames between forced key frames")
		maxStrip = flag.Uint("max-strips", 0, "cap on horizontal strips per frame, 0 for unbounded")
		gray     = flag.Bool("gray", false, "encode without chroma")
		fastYUV  = flag.Bool("fast-yuv", false, "use the fixed-point RGB<->YUV conversion instead of the gamma-correct one")
		noThread = flag.Bool("no-threads", false, "disable per-strip worker goroutines")
		verbose  = flag.Bool("v", false, "log at debug verbosity")
	)
	flag.Parse()

	verbosity := logging.Info
	if *verbose {
		verbosity = logging.Debug
	}
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(verbosity, fileLog, true)

	in, err := openInput(*inPath)
	if err != nil {
		l.Fatal("could not open input", "error", err.Error())
	}
	defer in.Close()

	out, err := openOutput(*outPath)
	if err != nil {
		l.Fatal("could not open output", "error", err.Error())
	}
	defer out.Close()

	if *decode {
		if err := runDecode(in, out, l); err != nil {
			l.Fatal("decode failed", "error", err.Error())
		}
		return
	}

	if *width == 0 || *height == 0 {
		l.Fatal("-width and -height are required when encoding")
	}
	cfg := config.Config{
		Width:            *width,
		Height:           *height,
		QualityFactor:    *quality,
		KeyFrameInterval: *keyEvery,
		MaxStrips:        *maxStrip,
		GrayOnly:         *gray,
		FastRGBToYUV:     *fastYUV,
		NoThreads:        *noThread,
		Logger:           l,
		LogLevel:         verbosity,
	}
	if err := runEncode(in, out, cfg, l); err != nil {
		l.Fatal("encode failed", "error", err.Error())
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// runEncode reads consecutive width*height*3-byte RGB frames from in and
// writes one cinepunk packet per frame to out. Each packet is
// self-describing (its frame header carries its own byte length), so a
// concatenated stream of packets needs no additional framing.
func runEncode(in io.Reader, out io.Writer, cfg config.Config, l logging.Logger) error {
	enc, err := cinepunk.New(cfg)
	if err != nil {
		return errors.Wrap(err, "cpenc: building encoder")
	}

	frameSize := int(cfg.Width) * int(cfg.Height) * 3
	br := bufio.NewReaderSize(in, frameSize)
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	frameBuf := make([]byte, frameSize)
	var frameNum int
	for {
		if _, err := io.ReadFull(br, frameBuf); err == io.EOF {
			break
		} else if err != nil {
			return errors.Wrapf(err, "cpenc: reading frame %d", frameNum)
		}

		packet, err := enc.Encode(frameBuf)
		if err != nil {
			return errors.Wrapf(err, "cpenc: encoding frame %d", frameNum)
		}
		if _, err := bw.Write(packet); err != nil {
			return errors.Wrapf(err, "cpenc: writing frame %d", frameNum)
		}
		l.Debug("encoded frame", "frame", frameNum, "bytes", len(packet), "bitrate", enc.Bitrate())
		frameNum++
	}
	return nil
}

// runDecode reads consecutive cinepunk packets from in -- each is
// self-describing via its frame header -- and writes one raw RGB frame
// per packet to out.
func runDecode(in io.Reader, out io.Writer, l logging.Logger) error {
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	dec := cinepunk.NewDecoder()
	var frameNum int
	for {
		size, err := peekPacketSize(br)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return errors.Wrapf(err, "cpenc: reading packet %d header", frameNum)
		}

		packet := make([]byte, size)
		if _, err := io.ReadFull(br, packet); err != nil {
			return errors.Wrapf(err, "cpenc: reading packet %d body", frameNum)
		}

		rgb, _, _, err := dec.Decode(packet)
		if err != nil {
			return errors.Wrapf(err, "cpenc: decoding packet %d", frameNum)
		}
		if _, err := bw.Write(rgb); err != nil {
			return errors.Wrapf(err, "cpenc: writing frame %d", frameNum)
		}
		l.Debug("decoded frame", "frame", frameNum, "bytes", len(rgb))
		frameNum++
	}
	return nil
}

// peekPacketSize reads a packet's 4-byte frame header (type + 24-bit
// size) without consuming it from br, then returns the declared total
// packet size.
func peekPacketSize(br *bufio.Reader) (int, error) {
	hdr, err := br.Peek(4)
	if err != nil {
		return 0, err
	}
	size := int(hdr[1])<<16 | int(hdr[2])<<8 | int(hdr[3])
	return size, nil
}
