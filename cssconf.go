// Package cssconf loads, validates and converts the build configuration of a
// CSS utility-class engine (the tailwind.config.js shape).
//
// A configuration is decoded from JavaScript, JSON/JSONC, YAML or HCL into
// an immutable Config. Loading is all-or-nothing: syntax and schema errors
// return no Config, while unknown keys only produce warnings.
//
// # Loading
//
//	res, err := cssconf.LoadFile("tailwind.config.js")
//	if err != nil {
//		return err
//	}
//	for _, glob := range res.Config.ContentGlobs() {
//		fmt.Println(glob)
//	}
//
// # Converting
//
// Marshal writes a Config in any supported format. Reloading the output
// yields an equal Config:
//
//	data, err := cssconf.Marshal(res.Config, cssconf.FormatYAML)
//
// # Watch mode
//
//	w, err := cssconf.NewWatcher("tailwind.config.js", cssconf.WatcherOptions{
//		OnChange: func(res *cssconf.LoadResult) { rebuild(res.Config) },
//	})
//	go w.Run(ctx)
//
// Each accepted edit replaces the snapshot returned by Current as a whole.
//
// # CLI Tool
//
// cssconf also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/cssconf/cmd/cssconf@latest
package cssconf
