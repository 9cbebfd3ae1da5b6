// Package application wires the loaded settings and the logger together and
// executes the command verb given at launch. It keeps the main package focused
// on argument parsing and exit codes.
package application
