package transport

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// SerialTransport is a Transport backed by a USB/UART connection to the
// radio coprocessor. Framing above the byte stream (where a frame starts
// and ends) is the radio vendor's concern, not this package's: callers
// supply already-framed byte slices and Recv hands back whatever the
// driver's read returned, unsplit.
type SerialTransport struct {
	port   serial.Port
	writeMu sync.Mutex
	closed  bool
	closeMu sync.Mutex
}

// OpenSerial opens portPath at 115200 baud, 8N1, with RTS asserted.
func OpenSerial(portPath string) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}
	if err := port.SetRTS(true); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set RTS: %w", err)
	}

	log.Info().Str("port", portPath).Msg("serial transport opened")
	return &SerialTransport{port: port}, nil
}

func (s *SerialTransport) Send(b []byte) (SendResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.isClosed() {
		return SendClosed, ErrClosed
	}
	if _, err := s.port.Write(b); err != nil {
		return SendBusy, err
	}
	return SendOK, nil
}

func (s *SerialTransport) Recv() ([]byte, error) {
	buf := make([]byte, 256)
	n, err := s.port.Read(buf)
	if err != nil {
		if s.isClosed() {
			return nil, ErrClosed
		}
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}
	return buf[:n], nil
}

func (s *SerialTransport) Close() error {
	s.closeMu.Lock()
	s.closed = true
	s.closeMu.Unlock()
	return s.port.Close()
}

func (s *SerialTransport) isClosed() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	return s.closed
}
