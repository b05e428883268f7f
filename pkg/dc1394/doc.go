/*
Package dc1394 controls a single IIDC camera on an IEEE-1394 bus.

The package does not talk to the bus itself. It drives a Bus, which
enumerates cameras and opens Handles, and layers the camera contract on top:

	Closed --Open--> Configured --Start--> Streaming
	   ^                 |  ^                  |
	   +-----Close-------+  +-------Stop-------+

Bus parameters (port, node, ISO speed, operation mode) are recorded before
Open. Video modes, Format7 regions and feature settings are negotiated while
Configured. Step and Grab are only legal while Streaming.

A Camera is not safe for concurrent use, with one exception: Stop may be
called while another goroutine is blocked in Step or Grab, which then
returns an error of kind KindState.
*/
package dc1394
