// Package actions connects sweeps to the GitHub Actions runner: it reads step inputs and the
// repository context, and reports run outcomes as workflow commands and step outputs.
package actions
