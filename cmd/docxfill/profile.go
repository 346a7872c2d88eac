package main

import (
	"log/slog"
	"slices"

	"github.com/pkg/profile"
)

var profileModes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

func profileModeNames() []string {
	names := make([]string, 0, len(profileModes))
	for name := range profileModes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// startProfile starts a profile of the given mode in dir. An empty mode
// profiles nothing.
func startProfile(mode, dir string, log *slog.Logger) (stop func()) {
	fn, ok := profileModes[mode]
	if !ok {
		return func() {}
	}

	log.Debug("profile start", slog.String("mode", mode), slog.String("dir", dir))
	p := profile.Start(fn, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
	return func() {
		p.Stop()
		log.Debug("profile stop", slog.String("mode", mode), slog.String("dir", dir))
	}
}
