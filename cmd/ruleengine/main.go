package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/engine"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var inputsPath string

	cmd := &cobra.Command{
		Use:   "ruleengine <rule-document.yaml>",
		Short: "Evaluate a YAML rule document against a set of inputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], inputsPath)
		},
	}
	cmd.Flags().StringVar(&inputsPath, "inputs", "", "path to a JSON or YAML file of input values")
	return cmd
}

func run(docPath, inputsPath string) error {
	docBytes, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("reading rule document: %w", err)
	}

	inputs, err := loadInputs(inputsPath)
	if err != nil {
		return fmt.Errorf("reading inputs: %w", err)
	}

	eng := engine.New(engine.Config{})
	result := eng.Evaluate(context.Background(), string(docBytes), inputs)

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func loadInputs(path string) (map[string]value.Value, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decoded map[string]interface{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	inputs := make(map[string]value.Value, len(decoded))
	for k, v := range decoded {
		inputs[k] = fromRaw(v)
	}
	return inputs, nil
}

// fromRaw converts a yaml.v3-decoded interface{} tree (YAML is a JSON
// superset, so this also covers plain JSON input files) into value.Value.
func fromRaw(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	case string:
		return value.Text(t)
	case []interface{}:
		items := make([]value.Value, len(t))
		for i, it := range t {
			items[i] = fromRaw(it)
		}
		return value.List(items)
	case map[string]interface{}:
		fields := make(map[string]value.Value, len(t))
		for k, val := range t {
			fields[k] = fromRaw(val)
		}
		return value.Object(fields)
	default:
		return value.Null
	}
}
