package config

// defaultBuildCommands maps file extensions to command templates used for
// execute targets when the config file does not override them. {src} and
// {dest} are substituted at build time.
var defaultBuildCommands = map[string]string{
	".py":  "python3 {src} > {dest}",
	".js":  "node {src} > {dest}",
	".cpp": "g++ -o {dest}.exe {src} && {dest}.exe > {dest}",
	".c":   "gcc -o {dest}.exe {src} && {dest}.exe > {dest}",
	".rs":  "rustc {src} -o {dest}.exe && {dest}.exe > {dest}",
	".go":  "go run {src} > {dest}",
	".rb":  "ruby {src} > {dest}",
	".sh":  "bash {src} > {dest}",
}

// BuildCommandFor returns the command template for a file extension, with
// config-file overrides taking precedence over the defaults. Empty means no
// command is known and the file can only be copied.
func (c Config) BuildCommandFor(ext string) string {
	if cmd, ok := c.BuildCommands[ext]; ok {
		return cmd
	}
	return defaultBuildCommands[ext]
}
