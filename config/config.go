// Package config holds the settings that control how the suite talks to the API under test.
//
// Settings are resolved in this order, each step overriding the previous one: built-in defaults,
// an optional YAML file, the environment, and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL          = "https://jsonplaceholder.typicode.com"
	DefaultRequestTimeout   = time.Second * 30
	DefaultAssertionTimeout = time.Second * 10
	DefaultTestTimeout      = time.Second * 60

	// EnvBaseURL names the environment variable that overrides the base URL.
	EnvBaseURL = "BASE_URL"
)

type Config struct {
	BaseURL          string            `yaml:"baseUrl"`
	RequestTimeout   time.Duration     `yaml:"requestTimeout"`
	AssertionTimeout time.Duration     `yaml:"assertionTimeout"`
	TestTimeout      time.Duration     `yaml:"testTimeout"`
	Retries          int               `yaml:"retries"`
	Headers          map[string]string `yaml:"headers"`
}

// Overrides are settings given on the command line. Zero values mean "not specified".
type Overrides struct {
	BaseURL        string
	RequestTimeout time.Duration
	Retries        ldvalue.OptionalInt
}

func Default() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		RequestTimeout:   DefaultRequestTimeout,
		AssertionTimeout: DefaultAssertionTimeout,
		TestTimeout:      DefaultTestTimeout,
		Headers:          map[string]string{"Accept": "application/json"},
	}
}

// LoadFile reads a YAML file on top of c. Keys that the file does not mention keep their current
// values; headers are merged. Unknown keys are an error.
func (c Config) LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	ret := c.clone()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&ret); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return ret, nil
}

// ApplyEnv applies environment overrides, reading variables through lookup (normally os.LookupEnv).
func (c Config) ApplyEnv(lookup func(string) (string, bool)) Config {
	ret := c.clone()
	if value, ok := lookup(EnvBaseURL); ok && strings.TrimSpace(value) != "" {
		ret.BaseURL = strings.TrimSpace(value)
	}
	return ret
}

func (c Config) ApplyOverrides(o Overrides) Config {
	ret := c.clone()
	if o.BaseURL != "" {
		ret.BaseURL = o.BaseURL
	}
	if o.RequestTimeout != 0 {
		ret.RequestTimeout = o.RequestTimeout
	}
	if o.Retries.IsDefined() {
		ret.Retries = o.Retries.IntValue()
	}
	return ret
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute http or https URL", c.BaseURL)
	}
	if c.RequestTimeout < 0 || c.AssertionTimeout < 0 || c.TestTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	if c.Retries < 0 {
		return errors.New("retries cannot be negative")
	}
	return nil
}

func (c Config) clone() Config {
	ret := c
	ret.Headers = make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		ret.Headers[k] = v
	}
	return ret
}
