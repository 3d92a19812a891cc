// Package progress animates the simulated analysis of a website.
//
// A Simulator advances a percentage on a fixed tick until it reaches 100,
// maps the percentage onto a fixed list of labeled phases, waits a short
// settle delay and then signals completion exactly once. No real work is
// performed.
//
// Design decision: Time is abstracted behind the Clock interface. The CLI uses
// RealClock (time.AfterFunc); tests use VirtualClock, which fires callbacks
// only when Advance is called. Every tick is scheduled as a one-shot timer
// after the previous tick has finished, so ticks never overlap and
// cancellation only ever has a single timer to stop.
package progress
