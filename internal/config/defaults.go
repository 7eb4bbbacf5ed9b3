package config

const (
	defaultCacheDir       = "comments"
	defaultYtDlpBinary    = "yt-dlp"
	defaultURLTemplate    = "https://www.youtube.com/watch?v=%s"
	defaultOutput         = "youtube_comments.csv"
	defaultDelayMS        = 1000
	defaultSorterInput    = "train.csv"
	defaultSorterOutput   = "sorted_file.csv"
	defaultSorterDelim    = ";"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNormalizeText  = true
	defaultHistoryEnabled = false
)

// DefaultVideos is the fallback identifier list used when a collect run is
// started without identifiers.
var DefaultVideos = []string{
	"xYhC8n8lmxQ",
	"CRFRZJmf_BM",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	videos := make([]string, len(DefaultVideos))
	copy(videos, DefaultVideos)
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
		},
		YtDlp: YtDlp{
			Binary:      defaultYtDlpBinary,
			URLTemplate: defaultURLTemplate,
		},
		Collector: Collector{
			Output:        defaultOutput,
			DelayMS:       defaultDelayMS,
			DefaultVideos: videos,
			NormalizeText: defaultNormalizeText,
		},
		Sorter: Sorter{
			Input:     defaultSorterInput,
			Output:    defaultSorterOutput,
			Delimiter: defaultSorterDelim,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
