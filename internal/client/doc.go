// Package client implements the requesting side of the file protocol.
//
// Each call dials the server, sends one request frame (plus the file body
// for uploads), half-closes the connection and reads the single response:
//
//	c := client.New("127.0.0.1:7890")
//	resp, err := c.List(ctx, "/")
//	if err == nil && resp.Status == protocol.Success {
//	    fmt.Print(string(resp.Payload))
//	}
package client
