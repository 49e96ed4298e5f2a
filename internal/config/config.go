package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Addr                string   `yaml:"addr"`
		Pprof               bool     `yaml:"pprof"`
		ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
		IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
		AdminAllowCIDRs     []string `yaml:"admin_allow_cidrs"`
	} `yaml:"server"`
	Source struct {
		BaseURL      string `yaml:"base_url"`
		SnapshotFile string `yaml:"snapshot_file"`
		PollSeconds  int    `yaml:"poll_seconds"`
	} `yaml:"source"`
	Scan struct {
		BaseCurrency          string  `yaml:"base_currency"`
		MinProfit             float64 `yaml:"min_profit"`
		SameIntermediateStore bool    `yaml:"same_intermediate_store"`
		HideWarnings          bool    `yaml:"hide_warnings"`
		CorrectProfit         bool    `yaml:"correct_profit"`
		MaxCombos             int     `yaml:"max_combos"`
	} `yaml:"scan"`
	FX struct {
		Enabled   bool    `yaml:"enabled"`
		CurrencyA string  `yaml:"currency_a"`
		CurrencyB string  `yaml:"currency_b"`
		RateA     float64 `yaml:"rate_a"`
		RateB     float64 `yaml:"rate_b"`
	} `yaml:"fx"`
	Report struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"report"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Addr = ":9090"
	c.Server.Pprof = false
	c.Server.ReadTimeoutSeconds = 5
	c.Server.WriteTimeoutSeconds = 10
	c.Server.IdleTimeoutSeconds = 60
	c.Server.AdminAllowCIDRs = []string{"127.0.0.0/8", "::1/128"}
	c.Source.BaseURL = "http://148.251.154.60:3011"
	c.Source.PollSeconds = 300
	c.Scan.BaseCurrency = "Crabbies"
	c.Scan.MinProfit = 0
	c.Scan.MaxCombos = 100000
	c.FX.Enabled = false
	c.FX.RateA = 1
	c.FX.RateB = 1
	return c
}

func Load() Config {
	c := defaultConfig()
	if path := os.Getenv("ECOTRADE_CONFIG"); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	if v := os.Getenv("ECOTRADE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ECOTRADE_LOG_PRETTY"); v == "1" || v == "true" {
		c.Logging.Pretty = true
	}
	if v := os.Getenv("ECOTRADE_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ECOTRADE_PPROF"); v == "1" || v == "true" {
		c.Server.Pprof = true
	}
	if v := os.Getenv("ECOTRADE_ADMIN_ALLOW_CIDRS"); v != "" {
		c.Server.AdminAllowCIDRs = splitCSV(v)
	}
	if v := os.Getenv("ECOTRADE_SERVER_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("ECOTRADE_SNAPSHOT_FILE"); v != "" {
		c.Source.SnapshotFile = v
	}
	if v := os.Getenv("ECOTRADE_POLL_SECONDS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n > 0 {
			c.Source.PollSeconds = n
		}
	}
	if v := os.Getenv("ECOTRADE_BASE_CURRENCY"); v != "" {
		c.Scan.BaseCurrency = v
	}
	if v := os.Getenv("ECOTRADE_MIN_PROFIT"); v != "" {
		var f float64
		_, _ = fmt.Sscan(v, &f)
		if f >= 0 {
			c.Scan.MinProfit = f
		}
	}
	if v := os.Getenv("ECOTRADE_SAME_INTERMEDIATE_STORE"); v == "1" || v == "true" {
		c.Scan.SameIntermediateStore = true
	}
	if v := os.Getenv("ECOTRADE_HIDE_WARNINGS"); v == "1" || v == "true" {
		c.Scan.HideWarnings = true
	}
	if v := os.Getenv("ECOTRADE_CORRECT_PROFIT"); v == "1" || v == "true" {
		c.Scan.CorrectProfit = true
	}
	if v := os.Getenv("ECOTRADE_MAX_COMBOS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n > 0 {
			c.Scan.MaxCombos = n
		}
	}
	if v := os.Getenv("ECOTRADE_FX_ENABLED"); v == "1" || v == "true" {
		c.FX.Enabled = true
	}
	if v := os.Getenv("ECOTRADE_FX_CURRENCY_A"); v != "" {
		c.FX.CurrencyA = v
	}
	if v := os.Getenv("ECOTRADE_FX_CURRENCY_B"); v != "" {
		c.FX.CurrencyB = v
	}
	if v := os.Getenv("ECOTRADE_FX_RATE_A"); v != "" {
		var f float64
		_, _ = fmt.Sscan(v, &f)
		if f > 0 {
			c.FX.RateA = f
		}
	}
	if v := os.Getenv("ECOTRADE_FX_RATE_B"); v != "" {
		var f float64
		_, _ = fmt.Sscan(v, &f)
		if f > 0 {
			c.FX.RateB = f
		}
	}
	if v := os.Getenv("ECOTRADE_REPORT_CSV"); v != "" {
		c.Report.CSVPath = v
	}
	return c
}

func splitCSV(s string) []string {
	var out []string
	buf := []rune{}
	for _, r := range s {
		if r == ',' {
			if len(buf) > 0 {
				out = append(out, string(buf))
				buf = buf[:0]
			}
			continue
		}
		buf = append(buf, r)
	}
	if len(buf) > 0 {
		out = append(out, string(buf))
	}
	return out
}
