// Package service implements the OBS source-service layer on top of the
// repository cache: configuration loading, git-buildpackage export
// invocation, and the privilege drop used to run the exporter under a
// dedicated user.
package service
