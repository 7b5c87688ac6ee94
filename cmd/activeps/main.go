//go:build linux

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"termproc/proc"
	"termproc/proc_linux"
	"termproc/tracker"
)

func main() {
	watchFlag := flag.Duration("watch", 0, "Poll interval (0 takes a single snapshot)")
	rootFlag := flag.String("root", "/proc", "Process table root")
	flag.Parse()

	t := tracker.New(proc_linux.NewAt(*rootFlag))

	for {
		active, err := t.ActiveProcesses()
		if err != nil {
			fmt.Printf("Error resolving active processes: %v\n", err)
			os.Exit(1)
		}

		printActive(active)

		if *watchFlag <= 0 {
			return
		}
		time.Sleep(*watchFlag)
	}
}

func printActive(active map[proc.ProcessID]*proc.Stat) {
	if len(active) == 0 {
		fmt.Println("No sessions with a foreground process")
		return
	}

	sessions := make([]proc.ProcessID, 0, len(active))
	for session := range active {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i] < sessions[j] })

	for _, session := range sessions {
		rec := active[session]
		fmt.Printf("session %6d: pid %6d  %s\n", session, rec.PID, rec.Name)
	}
}
