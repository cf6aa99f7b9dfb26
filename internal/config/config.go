// Package config loads the demo configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/xqrs/dragview/policy"
)

// ErrUnknownPolicy is returned when drag.policy names no reorder policy.
var ErrUnknownPolicy = errors.New("unknown drag policy")

// Config represents the top-level configuration.
type Config struct {
	List      ListConfig      `yaml:"list"`
	Drag      DragConfig      `yaml:"drag"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ListConfig holds the list contents and layout.
type ListConfig struct {
	Items     []string `yaml:"items"`
	RowHeight int      `yaml:"row_height"`
	Border    string   `yaml:"border"` // plain, round, thick, double
}

// DragConfig holds drag behavior settings.
type DragConfig struct {
	Policy           string        `yaml:"policy"` // none, swap-on-drop, swap-live, insert-shift
	AutoScrollAmount int           `yaml:"autoscroll_amount"`
	LongPress        time.Duration `yaml:"long_press"`
	HoverBorder      string        `yaml:"hover_border"`
	DragOnClick      bool          `yaml:"drag_on_click"`
}

// AnimationConfig holds animation timing.
type AnimationConfig struct {
	Duration  time.Duration `yaml:"duration"`
	FrameRate int           `yaml:"frame_rate"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// MetricsConfig holds the metrics endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path, expanding environment variables first.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if _, err := cfg.PolicyKind(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PolicyKind resolves drag.policy.
func (c *Config) PolicyKind() (policy.Kind, error) {
	kind, err := policy.ParseKind(c.Drag.Policy)
	if err != nil {
		return policy.None, fmt.Errorf("%w: %w", ErrUnknownPolicy, err)
	}
	return kind, nil
}

func (c *Config) applyDefaults() {
	if len(c.List.Items) == 0 {
		c.List.Items = DefaultItems()
	}
	if c.List.RowHeight <= 0 {
		c.List.RowHeight = 1
	}
	if c.List.Border == "" {
		c.List.Border = "round"
	}
	if c.Drag.Policy == "" {
		c.Drag.Policy = policy.InsertShift.String()
	}
	if c.Drag.AutoScrollAmount <= 0 {
		c.Drag.AutoScrollAmount = 1
	}
	if c.Drag.LongPress <= 0 {
		c.Drag.LongPress = 500 * time.Millisecond
	}
	if c.Drag.HoverBorder == "" {
		c.Drag.HoverBorder = "round"
	}
	if c.Animation.Duration <= 0 {
		c.Animation.Duration = 150 * time.Millisecond
	}
	if c.Animation.FrameRate <= 0 {
		c.Animation.FrameRate = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "dragdemo.log"
	}
}

// DefaultItems returns the demo list.
func DefaultItems() []string {
	return []string{
		"Abbaye de Belloc", "Abbaye du Mont des Cats", "Abertam", "Abondance",
		"Ackawi", "Acorn", "Adelost", "Affidelice au Chablis", "Afuega'l Pitu",
		"Airag", "Airedale", "Aisy Cendre", "Allgauer Emmentaler", "Alverca",
		"Ambert", "American Cheese", "Ami du Chambertin", "Anejo Enchilado",
		"Anneau du Vic-Bilh", "Anthoriro", "Appenzell", "Aragon", "Ardi Gasna",
		"Ardrahan", "Armenian String", "Aromes au Gene de Marc", "Asadero",
		"Asiago", "Aubisque Pyrenees", "Autun", "Avaxtskyr", "Baby Swiss",
		"Babybel", "Baguette Laonnaise", "Bakers", "Baladi", "Balaton",
		"Bandal", "Banon", "Barry's Bay Cheddar", "Basing", "Basket Cheese",
		"Bath Cheese", "Bavarian Bergkase", "Baylough", "Beaufort",
		"Beauvoorde", "Beenleigh Blue", "Beer Cheese", "Bel Paese",
	}
}
