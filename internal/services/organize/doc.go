// Package organize launches and supervises the external organize engine.
//
// A Run drains the subprocess's stdout and stderr on dedicated readers so a
// full pipe buffer on one stream can never stall writes on the other. Lines
// are classified incrementally into action records and delivered through a
// non-blocking ordered sink: producers append without waiting, the consumer
// drains at its own pace. Intra-stream order is exact; ordering across the
// two streams is best-effort by arrival.
package organize
