// Package countdown provides a frame-driven countdown timer engine.
//
// The package includes an [Engine] that counts a configured duration down
// in logical interval steps, notifying observers about started, progressed,
// aborted and ended runs, a [Manager] that owns a set of engines and keeps
// a bounded history of finished runs, and pluggable [Clock], [FrameScheduler]
// and [VisibilityProvider] abstractions that let hosts drive engines from
// real time, UI repaint loops or deterministic test harnesses.
package countdown
