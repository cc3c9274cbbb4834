// Package search drives a parameter sweep of glider trajectories across a
// pool of workers. Every worker draws start points from a shared scheduler,
// integrates each one until it lands or breaks a flight pattern, and keeps
// the trajectory that travelled furthest.
package search
