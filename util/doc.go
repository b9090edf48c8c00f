// Package util holds small parsing helpers shared by the server packages.
package util
