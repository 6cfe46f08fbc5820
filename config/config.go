package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clion/constants/lipgloss"
	"clion/indexer"
	"clion/llm"
	"clion/providers"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version          string                      `mapstructure:"version"`
	Theme            string                      `mapstructure:"theme"`
	BuildCommand     string                      `mapstructure:"build_command"`
	AIProviderConfig *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
	Scan             indexer.ScanOptions         `mapstructure:"scan"`
	Context          llm.ContextOptions          `mapstructure:"context"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:      "1.0.0",
	Theme:        "dracula",
	BuildCommand: "make",
	AIProviderConfig: &providers.AIProviderConfig{
		Provider: "ollama",
		BaseURL:  "",
		Model:    "qwen2.5-coder",
	},
	Scan:    indexer.DefaultScanOptions(),
	Context: llm.DefaultContextOptions(),
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("clion-config")
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	// Layer project rules (.clionrules.yaml) over the config
	if rules, err := LoadRules(cwd); err == nil && rules != nil {
		applyRules(config, rules)
	}

	return config
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("build_command", DefaultConfig.BuildCommand)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("scan.include_extensions", DefaultConfig.Scan.IncludeExtensions)
	viper.SetDefault("scan.exclude_patterns", DefaultConfig.Scan.ExcludePatterns)
	viper.SetDefault("scan.respect_gitignore", DefaultConfig.Scan.RespectGitignore)
	viper.SetDefault("scan.scan_subdirectories", DefaultConfig.Scan.ScanSubdirectories)
	viper.SetDefault("context.max_context_size", DefaultConfig.Context.MaxContextSize)
	viper.SetDefault("context.include_line_numbers", DefaultConfig.Context.IncludeLineNumbers)
	viper.SetDefault("context.file_header_format", DefaultConfig.Context.FileHeaderFormat)
	viper.SetDefault("context.truncate_large_files", DefaultConfig.Context.TruncateLargeFiles)
	viper.SetDefault("context.truncate_threshold", DefaultConfig.Context.TruncateThreshold)
	viper.SetDefault("context.exclude_patterns", DefaultConfig.Context.ExcludePatterns)
	viper.SetDefault("context.enable_intelligent_selection", DefaultConfig.Context.EnableIntelligentSelection)
	viper.SetDefault("context.show_relevance_info", DefaultConfig.Context.ShowRelevanceInfo)
	viper.SetDefault("context.analysis.relevance_threshold", DefaultConfig.Context.Analysis.RelevanceThreshold)
	viper.SetDefault("context.analysis.include_function_names", DefaultConfig.Context.Analysis.IncludeFunctionNames)
	viper.SetDefault("context.analysis.include_type_names", DefaultConfig.Context.Analysis.IncludeTypeNames)
	viper.SetDefault("context.analysis.include_includes", DefaultConfig.Context.Analysis.IncludeIncludes)
	viper.SetDefault("context.analysis.min_keyword_length", DefaultConfig.Context.Analysis.MinKeywordLength)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("build_command", "BUILD_COMMAND")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("build_command", rootCmd.PersistentFlags().Lookup("build_command"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("context.max_context_size", rootCmd.PersistentFlags().Lookup("max_context_size"))
	_ = viper.BindPFlag("context.show_relevance_info", rootCmd.PersistentFlags().Lookup("show_relevance_info"))
	_ = viper.BindPFlag("context.analysis.relevance_threshold", rootCmd.PersistentFlags().Lookup("relevance_threshold"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set customize theme for buffering response from ai. (e.g., 'dracula', 'light', 'dark')")
	rootCmd.PersistentFlags().String("build_command", DefaultConfig.BuildCommand, "The shell command used by 'fix' to build the project.")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider (e.g., 'ollama').")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of the AI provider.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The name of the model used for chat completions.")
	rootCmd.PersistentFlags().Int("max_context_size", DefaultConfig.Context.MaxContextSize, "Token budget for a single @file inclusion before truncation applies.")
	rootCmd.PersistentFlags().Bool("show_relevance_info", DefaultConfig.Context.ShowRelevanceInfo, "Show relevance diagnostics inline in the assembled context.")
	rootCmd.PersistentFlags().Float64("relevance_threshold", DefaultConfig.Context.Analysis.RelevanceThreshold, "Minimum relevance score for full-content inclusion.")
}

// applyRules merges the project rules file into the loaded config.
func applyRules(config *Config, rules *Rules) {
	if rules.BuildCommand != "" {
		config.BuildCommand = rules.BuildCommand
	}
	if len(rules.IncludeExtensions) > 0 {
		config.Scan.IncludeExtensions = rules.IncludeExtensions
	}
	if len(rules.ExcludePatterns) > 0 {
		config.Scan.ExcludePatterns = append(config.Scan.ExcludePatterns, rules.ExcludePatterns...)
		config.Context.ExcludePatterns = append(config.Context.ExcludePatterns, rules.ExcludePatterns...)
	}
	if rules.RelevanceThreshold > 0 {
		config.Context.Analysis.RelevanceThreshold = rules.RelevanceThreshold
	}
}
