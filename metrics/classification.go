// Package metrics は分類器の性能評価指標を提供する
package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// ConfusionMatrix は混同行列を計算する。行が正解クラス、列が予測クラス
func ConfusionMatrix(yTrue, yPred []int, nClasses int) (*mat.Dense, error) {
	if len(yTrue) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty labels")
	}
	if len(yPred) != len(yTrue) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}
	if nClasses <= 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "nClasses must be positive")
	}

	cm := mat.NewDense(nClasses, nClasses, nil)
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= nClasses || p < 0 || p >= nClasses {
			return nil, errors.NewValidationError("label", "outside [0, nClasses)", [2]int{t, p})
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// ClassMetrics は1クラス分の適合率・再現率・F1と正解サンプル数
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report はclassification_report相当の集計結果
type Report struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Support     int            `json:"support"`
}

// ClassificationReport はクラスごとの適合率・再現率・F1を計算する
//
// 分母が0になる指標は0とし、UndefinedMetricWarningを発生させる。
func ClassificationReport(yTrue, yPred []int, nClasses int) (*Report, error) {
	cm, err := ConfusionMatrix(yTrue, yPred, nClasses)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Classes: make([]ClassMetrics, nClasses),
		Support: len(yTrue),
	}

	var correct float64
	precision := make([]float64, nClasses)
	recall := make([]float64, nClasses)
	f1 := make([]float64, nClasses)
	support := make([]float64, nClasses)

	for k := 0; k < nClasses; k++ {
		tp := cm.At(k, k)
		correct += tp
		predicted := floats.Sum(mat.Col(nil, k, cm))
		actual := floats.Sum(mat.Row(nil, k, cm))

		precision[k] = ratio("precision", "no predicted samples", tp, predicted)
		recall[k] = ratio("recall", "no true samples", tp, actual)
		f1[k] = ratio("f1-score", "precision and recall are both zero",
			2*precision[k]*recall[k], precision[k]+recall[k])
		support[k] = actual

		report.Classes[k] = ClassMetrics{
			Precision: precision[k],
			Recall:    recall[k],
			F1:        f1[k],
			Support:   int(actual),
		}
	}

	total := float64(len(yTrue))
	report.Accuracy = correct / total

	n := float64(nClasses)
	report.MacroAvg = ClassMetrics{
		Precision: floats.Sum(precision) / n,
		Recall:    floats.Sum(recall) / n,
		F1:        floats.Sum(f1) / n,
		Support:   len(yTrue),
	}
	report.WeightedAvg = ClassMetrics{
		Precision: floats.Dot(precision, support) / total,
		Recall:    floats.Dot(recall, support) / total,
		F1:        floats.Dot(f1, support) / total,
		Support:   len(yTrue),
	}
	return report, nil
}

func ratio(metric, condition string, num, den float64) float64 {
	if den == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, condition, 0))
		return 0
	}
	return num / den
}
