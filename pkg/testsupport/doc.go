// Package testsupport holds document fixtures and golden-file helpers shared
// by package tests.
package testsupport
