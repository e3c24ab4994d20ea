package inference

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ArtifactSource opens model artifact files by their storage key.
type ArtifactSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type layersModelFile struct {
	Format          string          `json:"format"`
	ModelTopology   json.RawMessage `json:"modelTopology"`
	WeightsManifest []weightGroup   `json:"weightsManifest"`
}

type weightGroup struct {
	Paths   []string     `json:"paths"`
	Weights []weightSpec `json:"weights"`
}

type weightSpec struct {
	Name         string          `json:"name"`
	Shape        []int           `json:"shape"`
	DType        string          `json:"dtype"`
	Quantization json.RawMessage `json:"quantization,omitempty"`
}

type kerasModel struct {
	ClassName string          `json:"class_name"`
	Config    json.RawMessage `json:"config"`
}

type kerasLayer struct {
	ClassName string          `json:"class_name"`
	Config    kerasLayerConfig `json:"config"`
}

type kerasLayerConfig struct {
	Name            string `json:"name"`
	Units           int    `json:"units"`
	Activation      string `json:"activation"`
	UseBias         *bool  `json:"use_bias"`
	BatchInputShape []*int `json:"batch_input_shape"`
	BatchShape      []*int `json:"batch_shape"`
}

// LoadLayersModel reads a TensorFlow.js layers-model (model.json plus binary
// weight shards) and builds the equivalent Network.
func LoadLayersModel(ctx context.Context, src ArtifactSource, manifestPath string) (*Network, error) {
	raw, err := readAll(ctx, src, manifestPath)
	if err != nil {
		return nil, err
	}

	var file layersModelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestPath, err)
	}
	if file.Format != "" && file.Format != "layers-model" {
		return nil, fmt.Errorf("unsupported model format %q", file.Format)
	}

	layers, err := parseTopology(file.ModelTopology)
	if err != nil {
		return nil, err
	}

	weights, err := readWeights(ctx, src, path.Dir(manifestPath), file.WeightsManifest)
	if err != nil {
		return nil, err
	}

	return buildNetwork(layers, weights)
}

func readAll(ctx context.Context, src ArtifactSource, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func parseTopology(raw json.RawMessage) ([]kerasLayer, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("model.json has no modelTopology")
	}

	// Keras conversions wrap the model in model_config.
	var wrapped struct {
		ModelConfig *kerasModel `json:"model_config"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse modelTopology: %w", err)
	}
	var km kerasModel
	if wrapped.ModelConfig != nil {
		km = *wrapped.ModelConfig
	} else if err := json.Unmarshal(raw, &km); err != nil {
		return nil, fmt.Errorf("parse modelTopology: %w", err)
	}
	if km.ClassName != "Sequential" {
		return nil, fmt.Errorf("unsupported model class %q", km.ClassName)
	}

	var cfg struct {
		Layers []kerasLayer `json:"layers"`
	}
	if err := json.Unmarshal(km.Config, &cfg); err != nil {
		// Older Keras versions store the layer list directly.
		if err2 := json.Unmarshal(km.Config, &cfg.Layers); err2 != nil {
			return nil, fmt.Errorf("parse Sequential config: %w", err)
		}
	}
	if len(cfg.Layers) == 0 {
		return nil, fmt.Errorf("Sequential model has no layers")
	}
	return cfg.Layers, nil
}

type tensor struct {
	shape []int
	data  []float64
}

func readWeights(ctx context.Context, src ArtifactSource, dir string, groups []weightGroup) (map[string]tensor, error) {
	out := make(map[string]tensor)
	for _, g := range groups {
		var buf bytes.Buffer
		for _, p := range g.Paths {
			data, err := readAll(ctx, src, path.Join(dir, p))
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}

		blob := buf.Bytes()
		offset := 0
		for _, w := range g.Weights {
			if w.DType != "" && w.DType != "float32" {
				return nil, fmt.Errorf("weight %s: unsupported dtype %s", w.Name, w.DType)
			}
			if len(w.Quantization) > 0 && string(w.Quantization) != "null" {
				return nil, fmt.Errorf("weight %s: quantized weights are not supported", w.Name)
			}
			size, err := weightSize(w)
			if err != nil {
				return nil, err
			}
			if size > (len(blob)-offset)/4 {
				return nil, fmt.Errorf("weight %s: shard data truncated (need %d values, have %d bytes)", w.Name, size, len(blob)-offset)
			}
			end := offset + size*4
			values := make([]float64, size)
			for i := range values {
				bits := binary.LittleEndian.Uint32(blob[offset+i*4:])
				values[i] = float64(math.Float32frombits(bits))
			}
			out[w.Name] = tensor{shape: w.Shape, data: values}
			offset = end
		}
	}
	return out, nil
}

// weightSize is the element count of w. Every dimension must be positive.
func weightSize(w weightSpec) (int, error) {
	size := 1
	for _, d := range w.Shape {
		if d <= 0 {
			return 0, fmt.Errorf("weight %s: invalid shape %v", w.Name, w.Shape)
		}
		if size > math.MaxInt32/d {
			return 0, fmt.Errorf("weight %s: shape %v is too large", w.Name, w.Shape)
		}
		size *= d
	}
	return size, nil
}

// findWeight matches "<layer>/<kind>" with an optional scope prefix and an
// optional ":0" suffix.
func findWeight(weights map[string]tensor, layer, kind string) (tensor, bool) {
	want := layer + "/" + kind
	for name, t := range weights {
		name = strings.TrimSuffix(name, ":0")
		if name == want || strings.HasSuffix(name, "/"+want) {
			return t, true
		}
	}
	return tensor{}, false
}

func buildNetwork(klayers []kerasLayer, weights map[string]tensor) (*Network, error) {
	inputDim := 0
	var layers []Layer

	for i, kl := range klayers {
		c := kl.Config
		if inputDim == 0 {
			inputDim = lastDim(c.BatchInputShape)
			if inputDim == 0 {
				inputDim = lastDim(c.BatchShape)
			}
		}

		switch kl.ClassName {
		case "InputLayer", "Dropout", "Flatten":
			continue
		case "Activation":
			act, err := LookupActivation(c.Activation)
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", c.Name, err)
			}
			layers = append(layers, Layer{Name: c.Name, Activation: act})
		case "Dense":
			act, err := LookupActivation(c.Activation)
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", c.Name, err)
			}
			kernel, ok := findWeight(weights, c.Name, "kernel")
			if !ok {
				return nil, fmt.Errorf("layer %s: kernel weights missing", c.Name)
			}
			if c.Units <= 0 || len(kernel.shape) != 2 || kernel.shape[0] <= 0 || kernel.shape[1] != c.Units {
				return nil, fmt.Errorf("layer %s: kernel shape %v does not match %d units", c.Name, kernel.shape, c.Units)
			}
			if i == 0 && inputDim == 0 {
				inputDim = kernel.shape[0]
			}
			l := Layer{
				Name:       c.Name,
				Kernel:     mat.NewDense(kernel.shape[0], kernel.shape[1], kernel.data),
				Activation: act,
			}
			if c.UseBias == nil || *c.UseBias {
				bias, ok := findWeight(weights, c.Name, "bias")
				if !ok {
					return nil, fmt.Errorf("layer %s: bias weights missing", c.Name)
				}
				if len(bias.data) != c.Units {
					return nil, fmt.Errorf("layer %s: bias has %d entries, want %d", c.Name, len(bias.data), c.Units)
				}
				l.Bias = mat.NewVecDense(len(bias.data), bias.data)
			}
			layers = append(layers, l)
		default:
			return nil, fmt.Errorf("unsupported layer type %q", kl.ClassName)
		}
	}

	if inputDim == 0 && len(layers) > 0 && layers[0].Kernel != nil {
		inputDim, _ = layers[0].Kernel.Dims()
	}
	return NewNetwork(inputDim, layers)
}

func lastDim(shape []*int) int {
	if len(shape) == 0 || shape[len(shape)-1] == nil {
		return 0
	}
	return *shape[len(shape)-1]
}
