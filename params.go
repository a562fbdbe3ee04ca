package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/servicecomb/springmvc-contract-tests/framework"
	"github.com/servicecomb/springmvc-contract-tests/registry"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

const (
	defaultSourceName     = "springmvcclient"
	defaultProvider       = "springmvc"
	defaultAppID          = "springmvctest"
	defaultTimeoutSeconds = 30
	startupTimeout        = time.Second * 10
	envPrefix             = "SPRINGMVC_"
	defaultEnvFile        = ".env"
)

type commandParams struct {
	serviceURL     string
	registry       registryEntries
	serviceCenter  string
	appID          string
	serviceName    string
	provider       string
	timeoutSeconds int
	configFile     string
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
	testRunID      string
	explicit       map[string]bool
	passthrough    []string
}

// configFile is the optional YAML file given with -config. Flags given on the command line take
// precedence over its values.
type configFile struct {
	ServiceName    string            `yaml:"serviceName"`
	Provider       string            `yaml:"provider"`
	ServiceCenter  string            `yaml:"serviceCenter"`
	AppID          string            `yaml:"appId"`
	TimeoutSeconds *int              `yaml:"timeoutSeconds"`
	Registry       map[string]string `yaml:"registry"`
}

// registryEntries is a flag value of name=url pairs, separated by commas or given in repeated flags.
type registryEntries map[string]string

func (r registryEntries) String() string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+r[name])
	}
	return strings.Join(parts, ",")
}

func (r registryEntries) Set(value string) error {
	for _, entry := range strings.Split(value, ",") {
		name, url, ok := strings.Cut(entry, "=")
		if !ok || name == "" || url == "" {
			return fmt.Errorf("registry entry must be name=url, got %q", entry)
		}
		r[name] = url
	}
	return nil
}

func envDefault(name, defaultValue string) string {
	if value := os.Getenv(envPrefix + name); value != "" {
		return value
	}
	return defaultValue
}

func envDefaultInt(name string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(envPrefix + name)); err == nil {
		return n
	}
	return defaultValue
}

// loadEnvFile reads SPRINGMVC_* defaults from a .env file. Variables already set in the
// environment are not changed.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *commandParams) Read(args []string) bool {
	if err := loadEnvFile(envDefault("ENV_FILE", defaultEnvFile)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid .env file: %s\n", err)
		return false
	}

	c.registry = make(registryEntries)
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.serviceURL, "url", envDefault("URL", ""), "base URL of the provider under test")
	fs.Var(c.registry, "registry", "name=url entries for other microservices")
	fs.StringVar(&c.serviceCenter, "service-center", envDefault("SERVICE_CENTER", ""), "service-center URL for looking up microservices")
	fs.StringVar(&c.appID, "app-id", envDefault("APP_ID", defaultAppID), "application ID for service-center lookups")
	fs.StringVar(&c.serviceName, "service-name", envDefault("SERVICE_NAME", defaultSourceName), "microservice name to call the provider as")
	fs.StringVar(&c.provider, "provider", envDefault("PROVIDER", defaultProvider), "microservice name of the provider under test")
	fs.IntVar(&c.timeoutSeconds, "timeout", envDefaultInt("TIMEOUT", defaultTimeoutSeconds), "request timeout in seconds")
	fs.StringVar(&c.configFile, "config", envDefault("CONFIG", ""), "YAML configuration file")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	c.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		c.explicit[f.Name] = true
		if f.Name != "run" && f.Name != "skip" {
			c.passthrough = append(c.passthrough, "-"+f.Name+"="+f.Value.String())
		}
	})

	if c.configFile != "" {
		if err := c.applyConfigFile(c.configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid config file: %s\n", err)
			return false
		}
	}
	if c.serviceURL == "" && c.serviceCenter == "" && c.registry[c.provider] == "" {
		fmt.Fprintln(os.Stderr, "-url, -registry, or -service-center is required")
		fs.Usage()
		return false
	}
	if c.timeoutSeconds <= 0 {
		fmt.Fprintln(os.Stderr, "-timeout must be positive")
		return false
	}
	c.testRunID = uuid.NewString()
	return true
}

func (c *commandParams) applyConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var config configFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	setString := func(flagName string, target *string, value string) {
		if value != "" && !c.explicit[flagName] {
			*target = value
		}
	}
	setString("service-name", &c.serviceName, config.ServiceName)
	setString("provider", &c.provider, config.Provider)
	setString("service-center", &c.serviceCenter, config.ServiceCenter)
	setString("app-id", &c.appID, config.AppID)

	if timeout := ldvalue.NewOptionalIntFromPointer(config.TimeoutSeconds); timeout.IsDefined() && !c.explicit["timeout"] {
		c.timeoutSeconds = timeout.IntValue()
	}
	for name, url := range config.Registry {
		if _, ok := c.registry[name]; !ok {
			c.registry[name] = url
		}
	}
	return nil
}

// buildRegistry puts static entries ahead of the service-center, so that -url can point the
// tests at a provider that is not registered.
func (c *commandParams) buildRegistry() registry.Registry {
	static := registry.NewStaticRegistry(c.registry)
	if c.serviceURL != "" {
		static.Add(c.provider, c.serviceURL)
	}
	if c.serviceCenter == "" {
		return static
	}
	sc := registry.NewServiceCenterRegistry(c.serviceCenter, c.appID, nil)
	return registry.Chain{static, sc}
}

func (c *commandParams) requestTimeout() time.Duration {
	return time.Duration(c.timeoutSeconds) * time.Second
}

// rerunCommand is a command line that runs only the specified tests, with the same settings.
func (c *commandParams) rerunCommand(program string, ids []framework.TestID) string {
	rerun := framework.RegexFilters{MustNotMatch: c.filters.MustNotMatch}
	for _, id := range ids {
		_ = rerun.MustMatch.Set(framework.PatternForTest(id))
	}
	var b commandBuilder
	b.add(program)
	b.add(c.passthrough...)
	b.add(rerun.Args()...)
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
