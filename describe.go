package advice

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe renders a call the way it would appear in a trace, e.g.
// add(a=3, b=2). Names are matched to arguments positionally; arguments
// without a name are rendered bare.
func Describe(name string, args []any, params ...string) string {
	return describeCall(name, args, params)
}

func describeCall(name string, args []any, params []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if i < len(params) && params[i] != "" {
			parts[i] = params[i] + "=" + formatArg(arg)
			continue
		}
		parts[i] = formatArg(arg)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case error:
		return strconv.Quote(v.Error())
	default:
		return fmt.Sprintf("%v", v)
	}
}
