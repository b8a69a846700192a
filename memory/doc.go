// Package memory implements the memory unit of the simulated machine.
//
// The unit owns a fixed array of integer cells and is purely reactive: it
// answers Read requests, applies Write requests and exits on Terminate. It
// knows nothing about the processor, and enforces no privilege separation;
// the only check it makes is that every address lies within the array.
//
// Requests arrive either over Go channels (ChannelBus) or over a byte stream
// carrying the sentinel-tagged integer protocol (WireBus), one request
// outstanding at a time.
package memory
