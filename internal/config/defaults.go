package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/mevzuat/data/db/articles.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/mevzuat/data/indices/bleve"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/mevzuat/data/indices/vectors"
	}
	if cfg.Ingest.PDFDir == "" {
		cfg.Ingest.PDFDir = "/usr/local/var/mevzuat/docs"
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = 50
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.Agent.MaxIterations == 0 {
		cfg.Agent.MaxIterations = 15
	}
	if cfg.Agent.MaxDurationSeconds == 0 {
		cfg.Agent.MaxDurationSeconds = 60
	}
	if cfg.Agent.RetrieveK == 0 {
		cfg.Agent.RetrieveK = 3
	}
	if cfg.WebSearch.APIKeyEnv == "" {
		cfg.WebSearch.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if cfg.WebSearch.CSEIDEnv == "" {
		cfg.WebSearch.CSEIDEnv = "GOOGLE_CSE_ID"
	}
	if cfg.WebSearch.SiteDomain == "" {
		cfg.WebSearch.SiteDomain = "btu.edu.tr"
	}
	if cfg.WebSearch.MaxResults == 0 {
		cfg.WebSearch.MaxResults = 3
	}
}
