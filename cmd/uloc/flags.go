package main

import (
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// choiceFlag is a boolean flag that stores value into a target shared with
// sibling flags, so the last one given on the command line wins.
type choiceFlag struct {
	target *string
	value  string
}

func (f *choiceFlag) String() string {
	return strconv.FormatBool(*f.target == f.value)
}

func (f *choiceFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*f.target = f.value
	} else if *f.target == f.value {
		*f.target = ""
	}
	return nil
}

func (f *choiceFlag) Type() string {
	return "bool"
}

func choiceVar(fs *pflag.FlagSet, target *string, name, value, usage string) {
	flag := fs.VarPF(&choiceFlag{target: target, value: value}, name, "", usage)
	flag.NoOptDefVal = "true"
}

// normalizeArgs rewrites long options to the form cobra parses. Options
// may be spelled with one or two dashes in any letter case ("-CSV",
// "--NoHeader"). A lone "-" is dropped. Everything after "--" is passed
// through untouched. Single-letter shorthands like -h keep their form.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case arg == "-":
			continue
		case len(arg) > 2 && arg[0] == '-':
			name := strings.TrimLeft(arg, "-")
			value := ""
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name, value = name[:eq], name[eq:]
			}
			if len(name) > 1 {
				arg = "--" + strings.ToLower(name) + value
			}
		}
		out = append(out, arg)
	}
	return out
}

// protectPaths stops cobra from running a subcommand when the first
// positional argument names an existing file or directory, so
// "uloc version" scans a directory called version if there is one. The
// rewrite keeps flags in order ahead of a "--" with the paths after it.
func protectPaths(root *cobra.Command, args []string) []string {
	var flags, paths []string
	first := -1 // index in paths of the first positional seen before "--"

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			paths = append(paths, args[i+1:]...)
			break
		}
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)
			if takesValue(root, arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
			continue
		}
		if first < 0 {
			first = len(paths)
		}
		paths = append(paths, arg)
	}

	if first != 0 || !isSubcommand(root, paths[0]) {
		return args
	}
	if _, err := os.Stat(paths[0]); err != nil {
		return args
	}
	return append(append(flags, "--"), paths...)
}

// takesValue reports whether arg is a root flag that consumes the next
// argument as its value.
func takesValue(root *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	lookup := func(fs *pflag.FlagSet) *pflag.Flag {
		if name, ok := strings.CutPrefix(arg, "--"); ok {
			return fs.Lookup(name)
		}
		if len(arg) == 2 {
			return fs.ShorthandLookup(arg[1:])
		}
		return nil
	}

	flag := lookup(root.Flags())
	if flag == nil {
		flag = lookup(root.PersistentFlags())
	}
	return flag != nil && flag.NoOptDefVal == ""
}

func isSubcommand(root *cobra.Command, name string) bool {
	if name == "help" {
		return true
	}
	for _, cmd := range root.Commands() {
		if cmd.Name() == name || slices.Contains(cmd.Aliases, name) {
			return true
		}
	}
	return false
}
