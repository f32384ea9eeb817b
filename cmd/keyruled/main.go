// Keyruled is an authorization rules daemon.
//
// It compiles declarative rule files from precedence-ordered directories
// into an in-memory rule chain, keeps the chain fresh as files change on
// disk, and answers authorization queries with a first-match evaluation.
//
// Usage:
//
//	# Start the daemon with default configuration
//	keyruled run
//
//	# Start with a custom configuration file
//	keyruled run --config /etc/keyruled/config.yaml
//
//	# Validate rule files without starting the daemon
//	keyruled lint
//
//	# Evaluate one subject/action pair against the rule tree
//	keyruled check --user alice --groups users,lp org.example.print
//
//	# Show version information
//	keyruled version
package main

func main() {
	Execute()
}
