package config

const (
	defaultDownloadDir           = "~/downloads/einthusan"
	defaultLogDir                = "~/.local/share/einsync/logs"
	defaultCookiesFile           = "~/.config/einsync/cookies.txt"
	defaultCatalogBaseURL        = "https://einthusan.tv"
	defaultCatalogRequestTimeout = 30
	defaultCatalogRequestGap     = 1
	defaultCatalogMaxRedirects   = 5
	defaultRadarrRequestTimeout  = 30
	defaultSyncMinScore          = 0.85
	defaultDownloadRetries       = 3
	defaultDownloadRetryDelay    = 5
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Partitions lists the language catalogs Einthusan serves, in the order
// they are searched when no explicit preference applies.
var Partitions = []string{
	"tamil",
	"malayalam",
	"hindi",
	"telugu",
	"kannada",
	"bengali",
	"marathi",
	"punjabi",
}

// KnownPartition reports whether name is a language catalog Einthusan serves.
func KnownPartition(name string) bool {
	for _, p := range Partitions {
		if p == name {
			return true
		}
	}
	return false
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			CookiesFile: defaultCookiesFile,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			RequestTimeout: defaultCatalogRequestTimeout,
			RequestGap:     defaultCatalogRequestGap,
			MaxRedirects:   defaultCatalogMaxRedirects,
		},
		Radarr: Radarr{
			RequestTimeout: defaultRadarrRequestTimeout,
		},
		Sync: Sync{
			Languages: append([]string(nil), Partitions...),
			MinScore:  defaultSyncMinScore,
		},
		Download: Download{
			Retries:    defaultDownloadRetries,
			RetryDelay: defaultDownloadRetryDelay,
			Progress:   true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
