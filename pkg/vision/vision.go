package vision

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"Veriface/internal/entity"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ExtractorKind selects which face-model sidecar a call talks to.
type ExtractorKind int

const (
	EmbeddingExtractor ExtractorKind = iota
	LandmarkExtractor
)

// IVision is the client for the face-model sidecars. Both extractors are
// black boxes behind a websocket: a binary frame goes in, a JSON result
// comes back. A nil result with a nil error means the model found no face
// in the frame.
type IVision interface {
	ExtractEmbedding(frame []byte) ([]float64, error)
	ExtractLandmarks(frame []byte) (entity.LandmarkSet, error)
	IsConnected(kind ExtractorKind) bool
	Reconnect(kind ExtractorKind) error
	CloseConnections()
}

type visionClient struct {
	embeddingConn *websocket.Conn
	landmarkConn  *websocket.Conn
	mu            sync.Mutex
	readTimeout   time.Duration
	writeTimeout  time.Duration
}

type embeddingResult struct {
	Faces     int       `json:"faces"`
	Embedding []float64 `json:"embedding"`
}

type landmarkResult struct {
	Faces     int          `json:"faces"`
	Landmarks [][2]float64 `json:"landmarks"`
}

// NewClient dials both sidecars in the background; a sidecar that is down at
// startup is retried on demand.
func NewClient() IVision {
	client := &visionClient{
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground(EmbeddingExtractor)
	go client.connectInBackground(LandmarkExtractor)

	return client
}

func (c *visionClient) connectInBackground(kind ExtractorKind) {
	if err := c.Reconnect(kind); err != nil {
		logrus.Warnf("Initial connection to %s extractor failed: %v. Will retry on demand.",
			extractorName(kind), err)
	} else {
		logrus.Infof("Connected to %s extractor", extractorName(kind))
	}
}

func (c *visionClient) IsConnected(kind ExtractorKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case EmbeddingExtractor:
		return c.embeddingConn != nil
	case LandmarkExtractor:
		return c.landmarkConn != nil
	default:
		return false
	}
}

func (c *visionClient) Reconnect(kind ExtractorKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reconnectLocked(kind)
}

func (c *visionClient) reconnectLocked(kind ExtractorKind) error {
	if kind == EmbeddingExtractor && c.embeddingConn != nil {
		c.embeddingConn.Close()
		c.embeddingConn = nil
	} else if kind == LandmarkExtractor && c.landmarkConn != nil {
		c.landmarkConn.Close()
		c.landmarkConn = nil
	}

	url := extractorURL(kind)
	if url == "" {
		return fmt.Errorf("URL for %s extractor not configured", extractorName(kind))
	}

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s extractor: %w", extractorName(kind), err)
	}

	switch kind {
	case EmbeddingExtractor:
		c.embeddingConn = conn
	case LandmarkExtractor:
		c.landmarkConn = conn
	}

	return nil
}

// ExtractEmbedding returns the 128-d face signature for the first detected
// face, or nil when the model saw no face.
func (c *visionClient) ExtractEmbedding(frame []byte) ([]float64, error) {
	raw, err := c.roundTrip(EmbeddingExtractor, frame)
	if err != nil {
		return nil, err
	}

	var result embeddingResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode embedding result: %w", err)
	}

	if result.Faces == 0 || len(result.Embedding) == 0 {
		return nil, nil
	}

	return result.Embedding, nil
}

// ExtractLandmarks returns the 68-point landmark set for the first detected
// face, or nil when the model saw no face.
func (c *visionClient) ExtractLandmarks(frame []byte) (entity.LandmarkSet, error) {
	raw, err := c.roundTrip(LandmarkExtractor, frame)
	if err != nil {
		return nil, err
	}

	var result landmarkResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode landmark result: %w", err)
	}

	if result.Faces == 0 || len(result.Landmarks) == 0 {
		return nil, nil
	}

	landmarks := make(entity.LandmarkSet, 0, len(result.Landmarks))
	for _, p := range result.Landmarks {
		landmarks = append(landmarks, entity.Point{X: p[0], Y: p[1]})
	}

	return landmarks, nil
}

// roundTrip sends one binary frame and reads one JSON reply, reconnecting
// once if the connection went stale since the last call.
func (c *visionClient) roundTrip(kind ExtractorKind, frame []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		conn := c.connLocked(kind)
		if conn == nil {
			if err := c.reconnectLocked(kind); err != nil {
				return nil, err
			}
			conn = c.connLocked(kind)
		}

		if err := c.writeFrame(conn, frame); err != nil {
			logrus.Warnf("Write to %s extractor failed: %v", extractorName(kind), err)
			c.dropLocked(kind)
			continue
		}

		conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			logrus.Warnf("Read from %s extractor failed: %v", extractorName(kind), err)
			c.dropLocked(kind)
			continue
		}

		return raw, nil
	}

	return nil, fmt.Errorf("%s extractor unavailable", extractorName(kind))
}

func (c *visionClient) writeFrame(conn *websocket.Conn, frame []byte) error {
	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (c *visionClient) connLocked(kind ExtractorKind) *websocket.Conn {
	if kind == EmbeddingExtractor {
		return c.embeddingConn
	}
	return c.landmarkConn
}

func (c *visionClient) dropLocked(kind ExtractorKind) {
	if kind == EmbeddingExtractor {
		if c.embeddingConn != nil {
			c.embeddingConn.Close()
			c.embeddingConn = nil
		}
		return
	}
	if c.landmarkConn != nil {
		c.landmarkConn.Close()
		c.landmarkConn = nil
	}
}

func (c *visionClient) CloseConnections() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.embeddingConn != nil {
		c.embeddingConn.Close()
		c.embeddingConn = nil
	}
	if c.landmarkConn != nil {
		c.landmarkConn.Close()
		c.landmarkConn = nil
	}
}

func extractorURL(kind ExtractorKind) string {
	switch kind {
	case EmbeddingExtractor:
		return os.Getenv("VISION_EMBEDDING_WS_URL")
	case LandmarkExtractor:
		return os.Getenv("VISION_LANDMARK_WS_URL")
	default:
		return ""
	}
}

func extractorName(kind ExtractorKind) string {
	switch kind {
	case EmbeddingExtractor:
		return "embedding"
	case LandmarkExtractor:
		return "landmark"
	default:
		return "unknown"
	}
}
