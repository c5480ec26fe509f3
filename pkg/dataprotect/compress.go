/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression algorithms.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// NewCompressor returns the compressor for algo. An empty algo selects no compression.
func NewCompressor(algo string) (DataCompressor, error) {
	switch strings.ToLower(algo) {
	case CompressionZstd:
		return NewZStd()
	case CompressionGzip:
		return NewGzip(), nil
	case CompressionNone, "":
		return NewNilZip(), nil
	default:
		return nil, fmt.Errorf("unsupported record compression %q", algo)
	}
}

// ZStd compresses with zstandard. Encoder and decoder are shared and safe for concurrent use.
type ZStd struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZStd creates a zstandard compressor.
func NewZStd() (*ZStd, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd compressor: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decompressor: %w", err)
	}

	return &ZStd{encoder: encoder, decoder: decoder}, nil
}

func (z *ZStd) Compress(input []byte) ([]byte, error) {
	return z.encoder.EncodeAll(input, nil), nil
}

func (z *ZStd) Decompress(input []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}

	return out, nil
}

func (z *ZStd) String() string {
	return CompressionZstd
}

// GZip compresses with gzip.
type GZip struct{}

// NewGzip creates a gzip compressor.
func NewGzip() *GZip {
	return &GZip{}
}

func (g *GZip) Compress(input []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)

	if _, err := w.Write(input); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *GZip) Decompress(input []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}

	defer func() {
		_ = r.Close()
	}()

	return io.ReadAll(r)
}

func (g *GZip) String() string {
	return CompressionGzip
}

// NilZip stores input unchanged.
type NilZip struct{}

// NewNilZip creates a pass-through compressor.
func NewNilZip() *NilZip {
	return &NilZip{}
}

func (n *NilZip) Compress(input []byte) ([]byte, error) {
	return input, nil
}

func (n *NilZip) Decompress(input []byte) ([]byte, error) {
	return input, nil
}

func (n *NilZip) String() string {
	return CompressionNone
}
