// Package log defines standard attribute keys for dashboard operations.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "http.path") to enable structured log analysis and filtering.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the artifact or estimator type.
	// Examples: "LogisticRegression", "StandardScaler", "iris-softmax"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "panel", "web", "session"
	ComponentKey = "ml.component"
)

// Standard operation values for OperationKey.
const (
	OperationTransform    = "transform"
	OperationPredictProba = "predict_proba"
	OperationSubmit       = "submit"
	OperationRender       = "render"
	OperationLoad         = "load"
	OperationScore        = "score"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of class labels.
	ClassesKey = "data.classes"
)

// Prediction and Metrics
const (
	// PredictionIndexKey records the class index stored in the session.
	PredictionIndexKey = "prediction.index"

	// PredictionLabelKey records the rendered class label.
	PredictionLabelKey = "prediction.label"

	// ConfidenceKey records the winning class score.
	ConfidenceKey = "prediction.confidence"

	// AccuracyKey records model accuracy for evaluation operations.
	AccuracyKey = "metrics.accuracy"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// HTTP and Session
const (
	RequestIDKey  = "http.request_id"
	MethodKey     = "http.method"
	PathKey       = "http.path"
	StatusKey     = "http.status"
	RemoteAddrKey = "http.remote_addr"
	SessionIDKey  = "session.id"
)
