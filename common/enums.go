// Package common keeps enums shared between configuration and processing
// code, so config does not have to depend on processing packages.
package common

// Test status as reported by TestRail. Values 1-5 match TestRail system
// status ids, everything else is Unknown.
// ENUM(Passed=1, Blocked, Untested, Retest, Failed, Unknown)
type Status int

// StatusFromCode maps TestRail status_id to Status.
func StatusFromCode(code int) Status {
	s := Status(code)
	if s < StatusPassed || s > StatusFailed {
		return StatusUnknown
	}
	return s
}

// Color returns RGB hex color used to shade status headers.
func (x Status) Color() string {
	switch x {
	case StatusPassed:
		return "00FF00"
	case StatusBlocked:
		return "FFA500"
	case StatusUntested:
		return "D3D3D3"
	case StatusRetest:
		return "FFFF00"
	case StatusFailed:
		return "FF0000"
	default:
		return "FFFFFF"
	}
}

// How document is assembled: whole model in memory or test by test.
// ENUM(build, stream)
type ExportMode int
