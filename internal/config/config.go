// Package config loads the JSON configuration files for the kernelsim
// and sfss_server binaries, following the env-var-expansion pattern
// used by utils/config.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Kernel holds the kernel supervisor's tunables.
type Kernel struct {
	Apps          int    `json:"apps"`
	QuantumMs     int    `json:"quantum_ms"`
	MaxPC         int    `json:"max_pc"`
	SyscallProb   int    `json:"syscall_prob"`
	Irq1Prob      int    `json:"irq1_prob"`
	Irq2Prob      int    `json:"irq2_prob"`
	SfssHost      string `json:"sfss_host"`
	SfssPort      int    `json:"sfss_port"`
	LogLevel      string `json:"log_level"`
}

// SFSS holds the file-storage server's tunables.
type SFSS struct {
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
}

// Load reads path, expands environment references in its text, and
// decodes the result as JSON into a fresh T.
func Load[T any](path string) (T, error) {
	var cfg T

	LoadDotEnv(".env")

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}

	expanded := expandEnvWithMath(string(raw))
	if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv populates process environment variables from a simple
// KEY=VALUE file, skipping keys already set. A missing file is not an
// error — callers are expected to fall back to the real environment.
func LoadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

var envMathPattern = regexp.MustCompile(`\$\{([^}]+)([+-]\d+)\}`)

// expandEnvWithMath expands ${VAR} references and the extended
// ${VAR+N} / ${VAR-N} offset form before falling back to os.ExpandEnv.
func expandEnvWithMath(content string) string {
	content = envMathPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envMathPattern.FindStringSubmatch(match)
		if len(parts) != 3 {
			return match
		}
		varName, operation := parts[1], parts[2]

		base, err := strconv.Atoi(os.Getenv(varName))
		if err != nil {
			return match
		}
		operand, err := strconv.Atoi(operation[1:])
		if err != nil {
			return match
		}

		switch operation[0] {
		case '+':
			return strconv.Itoa(base + operand)
		case '-':
			return strconv.Itoa(base - operand)
		default:
			return match
		}
	})
	return os.ExpandEnv(content)
}
