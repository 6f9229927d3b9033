package cmd

import (
	"fmt"
	"os"
	"runtime"
)

// runVersion displays version and environment information.
func runVersion() {
	fmt.Printf("AtlasDesk %s\n", Version)
	fmt.Printf("Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		fmt.Println("GEMINI_API_KEY: configured")
	} else {
		fmt.Println("GEMINI_API_KEY: not set")
		fmt.Println("Hint: export GEMINI_API_KEY=your-api-key")
	}
}
