// Package preprocessing は推論前に特徴量へ適用するスケーラーを提供する
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/irisboard/core/model"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// NewStandardScalerFromParams は学習済みの平均・標準偏差からスケーラーを復元する
//
// アーティファクトに保存されたパラメータをそのまま使うため、Fitは不要。
func NewStandardScalerFromParams(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, errors.NewModelError("StandardScaler.FromParams", "empty parameters", errors.ErrEmptyData)
	}
	if len(scale) != len(mean) {
		return nil, errors.NewDimensionError("StandardScaler.FromParams", len(mean), len(scale), 1)
	}
	for j, sc := range scale {
		if sc <= 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return nil, errors.NewValidationError(fmt.Sprintf("scale[%d]", j), "must be a positive finite number", sc)
		}
	}

	s := NewStandardScalerDefault()
	s.Mean = append([]float64(nil), mean...)
	s.Scale = append([]float64(nil), scale...)
	s.state.SetDimensions(len(mean), 0)
	s.state.SetFitted()
	return s, nil
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
//
// 標準偏差は母標準偏差（自由度0）で、0に近い場合は1に置き換える。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	s.state.Reset()
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)

		if s.WithMean {
			s.Mean[j] = mean
		}

		s.Scale[j] = 1.0
		// 標準偏差が0に近い場合は1のまま（ゼロ除算を避ける）
		if s.WithStd && math.Abs(std) >= 1e-8 {
			s.Scale[j] = std
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if err := s.state.RequireFeatures("StandardScaler.Transform", c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// MinMaxScaler はscikit-learn互換のMin-Maxスケーラー
// データを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin は学習データの最小値
	DataMin []float64

	// DataRange は各特徴量の (max - min)。定数特徴量は1
	DataRange []float64

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		state:        model.NewStateManager(),
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerFromParams は保存済みの最小値・最大値からスケーラーを復元する
func NewMinMaxScalerFromParams(dataMin, dataMax []float64) (*MinMaxScaler, error) {
	if len(dataMin) == 0 {
		return nil, errors.NewModelError("MinMaxScaler.FromParams", "empty parameters", errors.ErrEmptyData)
	}
	if len(dataMax) != len(dataMin) {
		return nil, errors.NewDimensionError("MinMaxScaler.FromParams", len(dataMin), len(dataMax), 1)
	}

	m := NewMinMaxScaler([2]float64{0, 1})
	m.setRange(dataMin, dataMax)
	m.state.SetDimensions(len(dataMin), 0)
	m.state.SetFitted()
	return m, nil
}

// Fit は訓練データから最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	m.state.Reset()
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	mins := make([]float64, c)
	maxs := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mins[j], maxs[j] = col[0], col[0]
		for _, v := range col[1:] {
			mins[j] = math.Min(mins[j], v)
			maxs[j] = math.Max(maxs[j], v)
		}
	}
	m.setRange(mins, maxs)

	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

func (m *MinMaxScaler) setRange(mins, maxs []float64) {
	m.DataMin = append([]float64(nil), mins...)
	m.DataRange = make([]float64, len(mins))
	for j := range mins {
		m.DataRange[j] = maxs[j] - mins[j]
		if math.Abs(m.DataRange[j]) < 1e-8 {
			m.DataRange[j] = 1.0
		}
	}
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if err := m.state.RequireFeatures("MinMaxScaler.Transform", c); err != nil {
		return nil, err
	}

	lo, width := m.FeatureRange[0], m.FeatureRange[1]-m.FeatureRange[0]
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v-m.DataMin[j])/m.DataRange[j]*width + lo
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}
