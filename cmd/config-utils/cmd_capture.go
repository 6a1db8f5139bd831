package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	captureOutput string
	captureFormat string

	djangoOutput   string
	djangoFormat   string
	djangoManagePy string
	djangoSettings string
)

var captureEnvCmd = &cobra.Command{
	Use:   "capture-env",
	Short: "Capture all environment variables to a YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(captureFormat); err != nil {
			return err
		}

		env := map[string]string{}
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}

		if err := writeYAMLFile(captureOutput, env); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Captured %d environment variables to %s\n", len(env), captureOutput)
		return nil
	},
}

var captureDjangoCmd = &cobra.Command{
	Use:   "capture-django-settings",
	Short: "Capture Django settings to a YAML file",
	Long: `Captures a Django project's settings by running an inline script through
'python manage.py shell' and converting the JSON it prints to YAML. Run from
the project root, or point --manage-py at the project's manage.py.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(djangoFormat); err != nil {
			return err
		}
		if _, err := os.Stat(djangoManagePy); err != nil {
			return fmt.Errorf("manage.py not found at %s, run from your Django project root or use --manage-py", djangoManagePy)
		}

		settings, err := dumpDjangoSettings(cmd.Context(), djangoManagePy, djangoSettings)
		if err != nil {
			return err
		}

		if err := writeYAMLFile(djangoOutput, settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Captured %d Django settings to %s\n", len(settings), djangoOutput)
		return nil
	},
}

// djangoDumpScript runs inside `manage.py shell` and prints the upper-case
// settings as one JSON object. Non-serializable values are stringified.
const djangoDumpScript = `
import json
from django.conf import settings

settings_dict = {}
for setting in dir(settings):
    if setting.isupper():
        try:
            value = getattr(settings, setting)
            if not isinstance(value, (str, int, float, bool, list, dict, type(None))):
                value = str(value)
            settings_dict[setting] = value
        except Exception as e:
            settings_dict[setting] = "<Error retrieving value: %s>" % e

print(json.dumps(settings_dict))
`

func dumpDjangoSettings(ctx context.Context, managePy, settingsModule string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "python", managePy, "shell")
	cmd.Stdin = strings.NewReader(djangoDumpScript)
	cmd.Env = os.Environ()
	if settingsModule != "" {
		cmd.Env = append(cmd.Env, "DJANGO_SETTINGS_MODULE="+settingsModule)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running Django shell", zap.String("manage_py", managePy))
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("django shell command timed out")
		}
		return nil, fmt.Errorf("running Django shell: %w\n%s", err, stderr.String())
	}

	// The shell may print a banner before the script output; the JSON
	// object is the last non-empty line.
	out := strings.TrimSpace(stdout.String())
	lines := strings.Split(out, "\n")
	raw := strings.TrimSpace(lines[len(lines)-1])

	var settings map[string]any
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("could not parse Django settings output: %w\noutput: %s", err, out)
	}
	return settings, nil
}

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected yaml or yml)", format)
	}
}

func writeYAMLFile(path string, doc any) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

func init() {
	captureEnvCmd.Flags().StringVarP(&captureOutput, "output", "o", "env_config.yaml", "Output file path")
	captureEnvCmd.Flags().StringVarP(&captureFormat, "format", "f", "yaml", "Output format: yaml or yml")

	captureDjangoCmd.Flags().StringVarP(&djangoOutput, "output", "o", "django_settings.yaml", "Output file path")
	captureDjangoCmd.Flags().StringVarP(&djangoFormat, "format", "f", "yaml", "Output format: yaml or yml")
	captureDjangoCmd.Flags().StringVarP(&djangoManagePy, "manage-py", "m", "manage.py", "Path to manage.py")
	captureDjangoCmd.Flags().StringVarP(&djangoSettings, "settings", "s", "", "Django settings module (default: DJANGO_SETTINGS_MODULE)")
}
