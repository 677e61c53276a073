package runner

// BuildCommand assembles the style fixer command. Arguments always appear in
// the same order: configuration flag and path, input flag and file name, then
// the fix flag and the JSON report flag when requested.
func BuildCommand(tool, configFile, targetFile string, flags Flags) Command {
	if tool == "" {
		tool = DefaultTool
	}

	args := []string{ConfigFlag, configFile, FileFlag, targetFile}
	if flags.Fix {
		args = append(args, FixFlag)
	}
	if flags.JSONReport != "" {
		args = append(args, JSONReportFlag, flags.JSONReport)
	}

	return Command{Program: tool, Args: args}
}
