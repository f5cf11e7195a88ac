package main

import (
	"fmt"
	"strings"
)

type rootArgs struct {
	overrides []string
}

// parseRootArgs consumes leading -c key=value pairs and leaves the rest,
// starting at the subcommand or the first mode flag, untouched.
func parseRootArgs(args []string) (rootArgs, []string, error) {
	var root rootArgs
	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "-c" || arg == "--c":
			if i+1 >= len(args) {
				return rootArgs{}, nil, fmt.Errorf("flag needs an argument: %s", arg)
			}
			root.overrides = append(root.overrides, args[i+1])
			i += 2
		case strings.HasPrefix(arg, "-c=") || strings.HasPrefix(arg, "--c="):
			root.overrides = append(root.overrides, arg[strings.Index(arg, "=")+1:])
			i++
		default:
			return root, args[i:], nil
		}
	}
	return root, nil, nil
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}
