// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"strconv"

	"code.hybscloud.com/atomix"
)

// Serial is a monotonically increasing session identifier.
// Each call to NewPipe assigns the next serial value.
type Serial = uint32

// counter is the global monotonic counter for session serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}

// idSource hands out call identifiers of the form prefix+n, n counting
// from zero. It is never reset, so ids stay unique across sessions.
type idSource struct {
	prefix string
	n      atomix.Uint64
}

func (s *idSource) next() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1)-1, 10)
}
