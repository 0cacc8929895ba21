// Package meshtest provides small meshes for tests.
//
// This package is intended for use in tests only. Every fixture builds a
// fresh mesh, fails the test on construction errors and, where it makes
// sense, registers float64 vertex positions under PositionAttribute.
//
//	m := meshtest.TwoNeighbors(t)
//	pos := meshtest.Positions(t, m)
package meshtest
