// Package purge wires the draft release sweep into the command line.
//
// CommandBuilder assembles the purge Cobra command and resolves its options from flags,
// configuration and GitHub Actions inputs. DefaultRunServiceResolver builds the GitHub-backed
// run service, resolving credentials through TokenResolver. Every run ends with a YAML
// RunSummary on standard output.
package purge
