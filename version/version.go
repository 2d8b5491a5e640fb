package version

import "runtime/debug"

var Revision string

func init() {
	if build, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range build.Settings {
			if setting.Key == "vcs.revision" {
				Revision = setting.Value
				return
			}
		}
	}

	Revision = "<unknown>"
}

// UserAgent - the User-Agent sent to remote assessment services.
func UserAgent() string {
	rev := Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return "trustguard/" + rev
}
