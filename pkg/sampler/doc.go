// Package sampler turns successive procfs readings into comparable
// per-process snapshots.
//
// Each cycle a Reader reads the aggregate CPU counters, indexes every open
// TCP and UDP socket by inode, enumerates processes and enriches each one
// with its CPU share since the previous cycle, its memory share, disk I/O
// totals and the local ports of its sockets. The tick history kept between
// cycles holds exactly the processes of the latest cycle.
//
// Run drives a Reader on a fixed interval and hands results to a consumer
// through a Latest slot.
package sampler
