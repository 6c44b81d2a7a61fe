// Package flagx lets several packages parse their own subset of os.Args
// without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Both "-c conf.json" and "-c=conf.json" forms are understood. A flag given
// with a double dash ("--config") is matched against its single-dash name.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := allowed[normalize(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func normalize(name string) string {
	if strings.HasPrefix(name, "--") {
		return name[1:]
	}
	return name
}

// ConfigFile returns the value of -c / -config in args, or "" when neither
// is present or the value cannot be parsed.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
