package config

const (
	defaultUploadDir                = "~/.local/share/recap/uploads"
	defaultDataDir                  = "~/.local/share/recap/data"
	defaultLogDir                   = "~/.local/share/recap/logs"
	defaultAPIBind                  = "127.0.0.1:7980"
	defaultLogLevel                 = "info"
	defaultLogFormat                = "console"
	defaultOpenAIBaseURL            = "https://api.openai.com/v1"
	defaultOpenAIModel              = "gpt-4o-mini"
	defaultTranscribeModel          = "whisper-1"
	defaultLanguage                 = "es"
	defaultTimeoutSeconds           = 60
	defaultTranscribeTimeoutSeconds = 300
	defaultTranscribeRetries        = 3
	defaultWhisperBinary            = "whisper"
	defaultWhisperModel             = "medium"
	defaultConfidenceThreshold      = 0.7
	defaultTopTopics                = 10
	defaultSummarySentences         = 5
	defaultPlanDurationDays         = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir: defaultUploadDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
		OpenAI: OpenAI{
			BaseURL:                  defaultOpenAIBaseURL,
			Model:                    defaultOpenAIModel,
			TranscribeModel:          defaultTranscribeModel,
			Language:                 defaultLanguage,
			TimeoutSeconds:           defaultTimeoutSeconds,
			TranscribeTimeoutSeconds: defaultTranscribeTimeoutSeconds,
			TranscribeRetries:        defaultTranscribeRetries,
		},
		Whisper: Whisper{
			Binary:   defaultWhisperBinary,
			Model:    defaultWhisperModel,
			Language: defaultLanguage,
		},
		Analysis: Analysis{
			ConfidenceThreshold: defaultConfidenceThreshold,
			TopTopics:           defaultTopTopics,
		},
		Summary: Summary{
			MaxSentences: defaultSummarySentences,
		},
		Planning: Planning{
			DefaultDurationDays: defaultPlanDurationDays,
		},
	}
}
