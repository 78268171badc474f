package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GitHub struct {
		BaseURL      string   `yaml:"base_url"`
		Token        string   `yaml:"token"`
		SearchFilter string   `yaml:"search_filter,omitempty"`
		PerPage      int      `yaml:"per_page"`
		Timeout      Duration `yaml:"timeout"`
		MaxRetries   int      `yaml:"max_retries"`
	} `yaml:"github"`

	Poll struct {
		ProjectsInterval Duration `yaml:"projects_interval"`
		JobsInterval     Duration `yaml:"jobs_interval"`
	} `yaml:"poll"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Debug struct {
		DumpResponses bool   `yaml:"dump_responses"`
		DumpDir       string `yaml:"dump_dir,omitempty"`
	} `yaml:"debug"`
}

func Default() Config {
	var c Config
	s := domain.DefaultSettings()
	c.GitHub.BaseURL = s.BaseURL
	c.GitHub.PerPage = s.PerPage
	c.GitHub.Timeout = Duration{s.Timeout}
	c.GitHub.MaxRetries = s.MaxRetries
	c.Poll.ProjectsInterval = Duration{s.ProjectsInterval}
	c.Poll.JobsInterval = Duration{s.JobsInterval}
	c.Log.Level = "info"
	return c
}

// Load reads the config file and applies environment overrides. A
// missing file is not an error and neither is a missing token: the
// application starts unconfigured and opens the configuration screen.
// An unreadable or unparseable existing file is an error.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, domain.Failure{Kind: domain.FailConfigLoad, Path: path, Message: err.Error()}
			}
		case !errors.Is(err, os.ErrNotExist):
			return c, domain.Failure{Kind: domain.FailConfigLoad, Path: path, Message: err.Error()}
		}
	}

	if v := os.Getenv("GITHUB_BASE_URL"); v != "" {
		c.GitHub.BaseURL = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("GITHUB_SEARCH_FILTER"); v != "" {
		c.GitHub.SearchFilter = v
	}
	if v := os.Getenv("GITHUB_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GitHub.PerPage = n
		}
	}
	if v := os.Getenv("GITHUB_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.GitHub.Timeout = Duration{d}
		}
	}
	if v := os.Getenv("PROJECTS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Poll.ProjectsInterval = Duration{d}
		}
	}
	if v := os.Getenv("JOBS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Poll.JobsInterval = Duration{d}
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = expandHome(v)
	}

	c.Log.File = expandHome(c.Log.File)
	c.Debug.DumpDir = expandHome(c.Debug.DumpDir)

	d := Default()
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = d.GitHub.BaseURL
	}
	if c.GitHub.PerPage <= 0 {
		c.GitHub.PerPage = d.GitHub.PerPage
	}
	if c.GitHub.Timeout.Duration <= 0 {
		c.GitHub.Timeout = d.GitHub.Timeout
	}
	if c.Poll.ProjectsInterval.Duration <= 0 {
		c.Poll.ProjectsInterval = d.Poll.ProjectsInterval
	}
	if c.Poll.JobsInterval.Duration <= 0 {
		c.Poll.JobsInterval = d.Poll.JobsInterval
	}

	return c, nil
}

// Settings maps the file representation onto the immutable snapshot the
// client consumes.
func (c Config) Settings() domain.Settings {
	return domain.Settings{
		BaseURL:          c.GitHub.BaseURL,
		Token:            c.GitHub.Token,
		SearchFilter:     c.GitHub.SearchFilter,
		PerPage:          c.GitHub.PerPage,
		Timeout:          c.GitHub.Timeout.Duration,
		MaxRetries:       c.GitHub.MaxRetries,
		ProjectsInterval: c.Poll.ProjectsInterval.Duration,
		JobsInterval:     c.Poll.JobsInterval.Duration,
		DumpResponses:    c.Debug.DumpResponses,
		DumpDir:          c.Debug.DumpDir,
	}
}

// FromSettings carries an edited snapshot back into file form, keeping
// the fields Settings does not cover.
func (c Config) FromSettings(s domain.Settings) Config {
	c.GitHub.BaseURL = s.BaseURL
	c.GitHub.Token = s.Token
	c.GitHub.SearchFilter = s.SearchFilter
	c.GitHub.PerPage = s.PerPage
	c.GitHub.Timeout = Duration{s.Timeout}
	c.GitHub.MaxRetries = s.MaxRetries
	c.Poll.ProjectsInterval = Duration{s.ProjectsInterval}
	c.Poll.JobsInterval = Duration{s.JobsInterval}
	c.Debug.DumpResponses = s.DumpResponses
	c.Debug.DumpDir = s.DumpDir
	return c
}

// Save writes the config atomically under an advisory lock so a
// concurrent reload never sees a half-written file.
func Save(path string, c Config) error {
	if path == "" {
		return errors.New("empty config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}

	lockFile := path + ".lock"
	lf, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	b, err := yaml.Marshal(&c)
	if err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}
	if err := f.Sync(); err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}
	if err := os.Rename(tmp, path); err != nil {
		return domain.Failure{Kind: domain.FailConfigSave, Path: path, Message: err.Error()}
	}
	return nil
}

// DefaultPath is ~/.config/actions-dash/config.yaml (or the platform
// equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return expandHome("~/.config/actions-dash/config.yaml")
	}
	return filepath.Join(dir, "actions-dash", "config.yaml")
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}
