// Package dataset は可視化とフォームの既定値に使う参照データセット（Fisherのiris）を提供する
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

//go:embed iris.csv
var irisRaw []byte

// 標準の特徴量カラム名（scikit-learnのload_irisと同じ表記）
const (
	SepalLength = "sepal length (cm)"
	SepalWidth  = "sepal width (cm)"
	PetalLength = "petal length (cm)"
	PetalWidth  = "petal width (cm)"
)

// MaxVizColumns はヒストグラムを描く特徴量の上限
const MaxVizColumns = 4

// CanonicalColumns は可視化で優先する特徴量の順序
var CanonicalColumns = []string{SepalLength, SepalWidth, PetalLength, PetalWidth}

// ClassNames は種の表示名。ラベル値はこのスライスのインデックス
var ClassNames = []string{"setosa", "versicolor", "virginica"}

// Descriptions は各特徴量の説明文。フォームのヘルプテキストに使われる
var Descriptions = map[string]string{
	SepalLength: "Sepal length in centimeters",
	SepalWidth:  "Sepal width in centimeters",
	PetalLength: "Petal length in centimeters",
	PetalWidth:  "Petal width in centimeters",
}

// FeatureBounds は1特徴量の既定値（平均）と入力範囲
type FeatureBounds struct {
	Name string
	Mean float64
	Min  float64
	Max  float64
}

// Contains はvが[Min, Max]に収まるかを返す
func (b FeatureBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Dataset は特徴量行列とクラスラベルを保持する。読み込み後は変更されない
type Dataset struct {
	columns    []string
	classNames []string
	samples    [][]float64
	labels     []int
}

// Load は埋め込まれたiris.csvを読み込む
func Load() (*Dataset, error) {
	return Parse(bytes.NewReader(irisRaw))
}

// Parse はヘッダー付きCSVを読み込む。最終列はクラス名で、それ以外は数値特徴量
//
// クラス名はClassNamesの順にインデックス化され、未知のクラス名は末尾に追加される。
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.Parse", "missing header", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset.Parse: read header")
	}
	if len(header) < 2 {
		return nil, errors.NewValueError("dataset.Parse", "need at least one feature column and a class column")
	}

	nFeatures := len(header) - 1
	ds := &Dataset{
		columns:    append([]string(nil), header[:nFeatures]...),
		classNames: append([]string(nil), ClassNames...),
	}
	classIndex := make(map[string]int, len(ds.classNames))
	for i, name := range ds.classNames {
		classIndex[name] = i
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "dataset.Parse: line %d", line)
		}

		row := make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
			if err != nil {
				return nil, errors.NewValidationError(ds.columns[j], "not a number at line "+strconv.Itoa(line), record[j])
			}
			row[j] = v
		}

		species := strings.TrimSpace(record[nFeatures])
		label, ok := classIndex[species]
		if !ok {
			label = len(ds.classNames)
			ds.classNames = append(ds.classNames, species)
			classIndex[species] = label
		}

		ds.samples = append(ds.samples, row)
		ds.labels = append(ds.labels, label)
	}

	if len(ds.samples) == 0 {
		return nil, errors.NewModelError("dataset.Parse", "no samples", errors.ErrEmptyData)
	}
	return ds, nil
}

// Columns は特徴量カラム名をファイル上の順序で返す
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// ClassNames はラベルインデックス順のクラス名を返す
func (d *Dataset) ClassNames() []string {
	return append([]string(nil), d.classNames...)
}

// Len はサンプル数を返す
func (d *Dataset) Len() int {
	return len(d.samples)
}

func (d *Dataset) columnIndex(name string) int {
	for j, c := range d.columns {
		if c == name {
			return j
		}
	}
	return -1
}

// Column は指定した特徴量の値を返す
func (d *Dataset) Column(name string) ([]float64, error) {
	j := d.columnIndex(name)
	if j < 0 {
		return nil, errors.NewValidationError("column", "unknown feature", name)
	}
	values := make([]float64, len(d.samples))
	for i, row := range d.samples {
		values[i] = row[j]
	}
	return values, nil
}

// Bounds は全特徴量の平均・最小・最大をカラム順に返す
func (d *Dataset) Bounds() []FeatureBounds {
	bounds := make([]FeatureBounds, len(d.columns))
	for j, name := range d.columns {
		values, _ := d.Column(name)
		bounds[j] = FeatureBounds{
			Name: name,
			Mean: stat.Mean(values, nil),
			Min:  floats.Min(values),
			Max:  floats.Max(values),
		}
	}
	return bounds
}

// BoundsFor はcolumnsの順にBoundsを並べ替えて返す
func (d *Dataset) BoundsFor(columns []string) ([]FeatureBounds, error) {
	all := d.Bounds()
	out := make([]FeatureBounds, len(columns))
	for i, name := range columns {
		j := d.columnIndex(name)
		if j < 0 {
			return nil, errors.NewValidationError("column", "unknown feature", name)
		}
		out[i] = all[j]
	}
	return out, nil
}

// ClassCounts はクラスインデックス順のサンプル数を返す
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, len(d.classNames))
	for _, label := range d.labels {
		counts[label]++
	}
	return counts
}

// VizColumns はcolumnsに含まれる標準カラムを標準の順序で最大MaxVizColumns個返す
func VizColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var out []string
	for _, c := range CanonicalColumns {
		if present[c] {
			out = append(out, c)
		}
		if len(out) == MaxVizColumns {
			break
		}
	}
	return out
}

// Matrix は特徴量行列 (n_samples x n_features) を返す
func (d *Dataset) Matrix() *mat.Dense {
	X := mat.NewDense(len(d.samples), len(d.columns), nil)
	for i, row := range d.samples {
		X.SetRow(i, row)
	}
	return X
}

// MatrixFor はcolumnsの順に並べた特徴量行列を返す
func (d *Dataset) MatrixFor(columns []string) (*mat.Dense, error) {
	idx := make([]int, len(columns))
	for k, name := range columns {
		idx[k] = d.columnIndex(name)
		if idx[k] < 0 {
			return nil, errors.NewValidationError("column", "unknown feature", name)
		}
	}
	X := mat.NewDense(len(d.samples), len(columns), nil)
	for i, row := range d.samples {
		for k, j := range idx {
			X.Set(i, k, row[j])
		}
	}
	return X, nil
}

// Labels はクラスラベルを返す
func (d *Dataset) Labels() []int {
	return append([]int(nil), d.labels...)
}

// LabelVector はラベルを (n_samples x 1) の行列として返す
func (d *Dataset) LabelVector() *mat.Dense {
	y := mat.NewDense(len(d.labels), 1, nil)
	for i, label := range d.labels {
		y.Set(i, 0, float64(label))
	}
	return y
}
