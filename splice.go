// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"bufio"
	"context"
	"io"

	"code.hybscloud.com/iox"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// maxLine bounds a single message read by Splice.
const maxLine = 1 << 24

// Splice relays between ep and a newline-delimited text stream, one
// message per line, so a runtime living in another process can sit on
// the far end of a pipe. Lines read from r are sent on ep; messages
// received on ep are written to w.
//
// When r reaches EOF the pipe is closed. Splice returns once r is done
// and everything queued on ep has been written, or on the first error.
// Closing ep from elsewhere does not interrupt a blocked read on r.
func Splice(ctx context.Context, ep *Endpoint, r io.Reader, w io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer ep.Close()
		scan := bufio.NewScanner(r)
		scan.Buffer(make([]byte, 0, 4096), maxLine)
		for scan.Scan() {
			line := scan.Text()
			if line == "" {
				continue
			}
			if err := ep.SendContext(ctx, line); err != nil {
				if errors.Is(err, ErrChannelClosed) {
					return nil
				}
				return err
			}
		}
		return errors.Wrap(scan.Err(), "read stream")
	})

	g.Go(func() error {
		bw := bufio.NewWriter(w)
		for {
			msg, err := ep.TryRecv()
			if iox.IsWouldBlock(err) {
				// flush before waiting so the peer is never starved
				if err := bw.Flush(); err != nil {
					return errors.Wrap(err, "write stream")
				}
				msg, err = ep.Recv(ctx)
			}
			if err != nil {
				if errors.Is(err, ErrChannelClosed) {
					return errors.Wrap(bw.Flush(), "write stream")
				}
				return err
			}
			if _, err := bw.WriteString(msg); err != nil {
				return errors.Wrap(err, "write stream")
			}
			if err := bw.WriteByte('\n'); err != nil {
				return errors.Wrap(err, "write stream")
			}
		}
	})

	return g.Wait()
}
