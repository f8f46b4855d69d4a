package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet. Defaults here
// are only shown in help; LoadConfig applies the effective ones.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("input", "i", "", "Input export file or directory of exports")
	flags.StringP("output", "o", "", "Output CSV file or directory")
	flags.BoolP("merge", "m", false, "Merge all inputs into one CSV (default "+DefaultMergedName+" beside the input)")
	flags.StringP("config", "c", "", "Settings file (default "+DefaultConfigPath()+")")
	flags.String("labels", "", "YAML label dictionary merged over the built-in labels")
	flags.Int("workers", 0, "Files processed concurrently (default one per CPU)")
	flags.Bool("lossy", true, "Replace undecodable bytes instead of failing the file")
	flags.Bool("bom", true, "Prefix CSV output with a UTF-8 byte order mark")
	flags.StringSlice("ext", defaultExtensions, "Extensions picked up from an input directory")
	flags.Bool("recursive", false, "Descend into subdirectories of an input directory")
	flags.Bool("manifest", false, "Write <output>.manifest.json next to each CSV")
	flags.String("pdf", "", "Write a PDF digest of the extracted articles to this path")
	flags.Bool("summary", false, "Print a per-file summary table to stderr")
	flags.StringSlice("env-file", []string{".env"}, "Dotenv files loaded before reading the environment")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.Bool("log-json", false, "Log JSON lines instead of console output")
}
