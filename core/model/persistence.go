package model

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// Format is the on-disk encoding of a persisted artifact.
type Format string

const (
	FormatJSON Format = "json"
	FormatGob  Format = "gob"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".gob":
		return FormatGob, nil
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "extension %q", filepath.Ext(path))
	}
}

// SaveModel はモデルをファイルに保存する
//
// エンコード形式はファイルの拡張子（.json / .gob）で決まる。
//
// 使用例:
//
//	err := model.SaveModel(&bundle, "iris.gob")
func SaveModel(v interface{}, filename string) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SaveModelToWriter(v, file, format)
}

// LoadModel はファイルからモデルを読み込む
//
// 使用例:
//
//	var bundle artifact.Bundle
//	err := model.LoadModel(&bundle, "iris.json")
func LoadModel(v interface{}, filename string) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(v, file, format)
}

// SaveModelToWriter はモデルをio.Writerに保存する
func SaveModelToWriter(v interface{}, w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatGob:
		err = gob.NewEncoder(w).Encode(v)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	default:
		return errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
func LoadModelFromReader(v interface{}, r io.Reader, format Format) error {
	var err error
	switch format {
	case FormatGob:
		err = gob.NewDecoder(r).Decode(v)
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	default:
		return errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
