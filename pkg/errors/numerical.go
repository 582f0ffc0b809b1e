package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 分類器のスコアにNaNやInfが含まれる場合に使われます。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "predict_proba"）
	Values    []float64 // 問題のある値
	Row       int       // 発生した行番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("irisboard: numerical instability detected in %s at row %d. Values: [%s]",
		e.Operation, e.Row, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, row int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Row:       row,
	}
	return errors.WithStack(err)
}

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64, row int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, row)
		}
	}
	return nil
}
