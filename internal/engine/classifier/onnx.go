package classifier

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// DefaultRuntimePath returns the ONNX Runtime shared library path used when
// none is configured: libonnxruntime.so next to the model file.
func DefaultRuntimePath(modelPath string) string {
	return filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
}

// labelOutputNames are the label output names produced by common
// scikit-learn exporters, in preference order.
var labelOutputNames = []string{"label", "output_label"}

// ioSpec is the subset of model I/O the classifier binds to.
type ioSpec struct {
	input       string
	label       string
	numFeatures int64 // 0 when the model leaves the feature axis dynamic
}

// selectIO picks the feature input and the class-label output.
func selectIO(inputs, outputs []ort.InputOutputInfo) (ioSpec, error) {
	if len(inputs) != 1 {
		return ioSpec{}, fmt.Errorf("onnx: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return ioSpec{}, fmt.Errorf("onnx: input %q has type %v, expected float tensor", in.Name, in.DataType)
	}
	if len(in.Dimensions) != 2 {
		return ioSpec{}, fmt.Errorf("onnx: expected 2D input tensor, got %v", in.Dimensions)
	}
	io := ioSpec{input: in.Name}
	if d := in.Dimensions[1]; d > 0 {
		io.numFeatures = d
	}

	if len(outputs) == 0 {
		return ioSpec{}, fmt.Errorf("onnx: model has no outputs")
	}
	var label *ort.InputOutputInfo
	for _, name := range labelOutputNames {
		for i := range outputs {
			if outputs[i].Name == name {
				label = &outputs[i]
				break
			}
		}
		if label != nil {
			break
		}
	}
	if label == nil {
		for i := range outputs {
			if outputs[i].OrtValueType == ort.ONNXTypeTensor && outputs[i].DataType == ort.TensorElementDataTypeInt64 {
				label = &outputs[i]
				break
			}
		}
	}
	if label == nil {
		return ioSpec{}, fmt.Errorf("onnx: no int64 label output among %d outputs", len(outputs))
	}
	if label.OrtValueType != ort.ONNXTypeTensor || label.DataType != ort.TensorElementDataTypeInt64 {
		return ioSpec{}, fmt.Errorf("onnx: label output %q has type %v, expected int64 tensor (export with integer-encoded classes)",
			label.Name, label.DataType)
	}
	io.label = label.Name
	return io, nil
}

// ONNX runs a decision-tree classifier exported to ONNX.
type ONNX struct {
	session *ort.DynamicAdvancedSession
	io      ioSpec
}

// NewONNX loads the model at modelPath. libPath is the ONNX Runtime shared
// library; when empty, DefaultRuntimePath(modelPath) is used.
func NewONNX(modelPath, libPath string) (*ONNX, error) {
	if libPath == "" {
		libPath = DefaultRuntimePath(modelPath)
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	io, err := selectIO(inputs, outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{io.input},
		[]string{io.label},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNX{session: session, io: io}, nil
}

// NumFeatures returns the feature width the model declares, or 0 if dynamic.
func (c *ONNX) NumFeatures() int {
	return int(c.io.numFeatures)
}

// Predict runs one inference call over rows and returns one class index
// per row.
func (c *ONNX) Predict(rows [][]float32) ([]int64, error) {
	width, err := checkRows(rows, c.io.numFeatures)
	if err != nil {
		return nil, fmt.Errorf("onnx: %w", err)
	}
	batch := int64(len(rows))

	flat := make([]float32, 0, batch*width)
	for _, r := range rows {
		flat = append(flat, r...)
	}

	tIn, err := ort.NewTensor(ort.NewShape(batch, width), flat)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create %s tensor: %w", c.io.input, err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[int64](ort.NewShape(batch))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := c.session.Run([]ort.Value{tIn}, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before tensor is destroyed.
	src := tOut.GetData()
	out := make([]int64, len(src))
	copy(out, src)
	return out, nil
}

// Close releases the ONNX session resources.
func (c *ONNX) Close() error {
	return c.session.Destroy()
}
