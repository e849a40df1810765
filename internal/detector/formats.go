package detector

import "regexp"

// TimestampFormat is a known timestamp shape the Detector checks a sample
// against.
type TimestampFormat struct {
	Name       string
	Pattern    *regexp.Regexp
	PatternStr string
	Layout     string
	Examples   []string
	Ambiguous  bool // true if the format has MM/DD vs DD/MM ordering ambiguity
}

// DefaultFormats returns the built-in timestamp formats to detect, ordered
// roughly by specificity (more specific patterns first).
func DefaultFormats() []*TimestampFormat {
	formats := []*TimestampFormat{
		{
			Name:       "ISO 8601 with timezone",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2})`,
			Layout:     "2006-01-02T15:04:05-07:00",
			Examples:   []string{"2024-01-15T10:30:00+00:00", "2024-01-15T10:30:00-05:00"},
		},
		{
			Name:       "ISO 8601 with Z (UTC)",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z)`,
			Layout:     "2006-01-02T15:04:05Z",
			Examples:   []string{"2024-01-15T10:30:00Z"},
		},
		{
			Name:       "ISO 8601 with milliseconds and timezone",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}[+-]\d{2}:\d{2})`,
			Layout:     "2006-01-02T15:04:05.000-07:00",
			Examples:   []string{"2024-01-15T10:30:00.123+00:00"},
		},
		{
			Name:       "ISO 8601 with milliseconds and Z",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z)`,
			Layout:     "2006-01-02T15:04:05.000Z",
			Examples:   []string{"2024-01-15T10:30:00.123Z"},
		},
		{
			Name:       "ISO 8601 with milliseconds",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3})`,
			Layout:     "2006-01-02T15:04:05.000",
			Examples:   []string{"2024-01-15T10:30:00.123"},
		},
		{
			Name:       "ISO 8601",
			PatternStr: `^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})`,
			Layout:     "2006-01-02T15:04:05",
			Examples:   []string{"2024-01-15T10:30:00"},
		},
		{
			Name:       "Bracketed datetime",
			PatternStr: `^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"[2024-01-15 10:30:00]"},
		},
		{
			Name:       "Syslog with year",
			PatternStr: `^(\w{3}\s+\d{1,2}\s+\d{4}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "Jan 2 2006 15:04:05",
			Examples:   []string{"Jun 14 2024 15:16:01"},
		},
		{
			Name:       "Syslog (BSD)",
			PatternStr: `^(\w{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "Jan 2 15:04:05",
			Examples:   []string{"Jun 14 15:16:01", "Jan  5 09:30:00"},
		},
		{
			Name:       "Apache/NGINX CLF",
			PatternStr: `\[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}\s+[+-]\d{4})\]`,
			Layout:     "02/Jan/2006:15:04:05 -0700",
			Examples:   []string{"[15/Jun/2024:10:30:00 +0000]"},
		},
		{
			Name:       "Apache error log",
			PatternStr: `^\[(\w{3} \w{3} \d{2} \d{2}:\d{2}:\d{2} \d{4})\]`,
			Layout:     "Mon Jan 02 15:04:05 2006",
			Examples:   []string{"[Sun Dec 04 04:47:44 2005]"},
		},
		{
			Name:       "Spark/Hadoop short date",
			PatternStr: `^(\d{2}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})`,
			Layout:     "06/01/02 15:04:05",
			Examples:   []string{"17/06/09 20:10:40"},
		},
		{
			Name:       "HDFS compact",
			PatternStr: `^(\d{6} \d{6})`,
			Layout:     "060102 150405",
			Examples:   []string{"081109 203615"},
		},
		{
			Name:       "Python logging",
			PatternStr: `^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2},\d{3})`,
			Layout:     "2006-01-02 15:04:05,000",
			Examples:   []string{"2024-01-15 10:30:00,123"},
		},
		{
			Name:       "Log4j/Java logging",
			PatternStr: `^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})`,
			Layout:     "2006-01-02 15:04:05.000",
			Examples:   []string{"2024-01-15 10:30:00.123"},
		},
		{
			Name:       "Datetime (space-separated)",
			PatternStr: `^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"2024-01-15 10:30:00"},
		},
		{
			Name:       "Kubernetes JSON timestamp",
			PatternStr: `"time":"(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z)"`,
			Layout:     "2006-01-02T15:04:05.000000000Z",
			Examples:   []string{`"time":"2024-01-15T10:30:00.123456789Z"`},
		},
		{
			Name:       "Unix timestamp (seconds)",
			PatternStr: `^(\d{10})(?:\s|$|\])`,
			Layout:     "UNIX_SECONDS",
			Examples:   []string{"1705315800"},
		},
		{
			Name:       "Unix timestamp (milliseconds)",
			PatternStr: `^(\d{13})(?:\s|$|\])`,
			Layout:     "UNIX_MILLIS",
			Examples:   []string{"1705315800000"},
		},
		{
			Name:       "US date format (MM/DD/YYYY)",
			PatternStr: `^(\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "01/02/2006 15:04:05",
			Examples:   []string{"01/15/2024 10:30:00"},
			Ambiguous:  true,
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
