package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/imroc/req"
	"github.com/schollz/progressbar/v3"
	"github.com/tidwall/gjson"
)

var (
	server   string
	mode     string
	filePath string
	uploadId string
	key      string
)

func init() {
	flag.StringVar(&server, "server", "http://localhost:7280", "Upload service base URL")
	flag.StringVar(&mode, "mode", "upload", "Mode: upload/pending/status/abort")
	flag.StringVar(&filePath, "file", "", "File to upload (upload mode)")
	flag.StringVar(&uploadId, "uploadId", "", "Upload session ID (status/abort mode)")
	flag.StringVar(&key, "key", "", "Object key (abort mode)")
}

func main() {
	flag.Parse()
	req.SetTimeout(5 * time.Minute)

	var err error
	switch mode {
	case "upload":
		err = runUpload()
	case "pending":
		err = runPending()
	case "status":
		err = runStatus()
	case "abort":
		err = runAbort()
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", mode, err)
	}
}

// apiResult checks the HTTP status and response envelope, returning the raw body
func apiResult(resp *req.Resp) (string, error) {
	body := resp.String()
	status := resp.Response().StatusCode
	if status != 200 || gjson.Get(body, "code").Int() != 0 {
		message := gjson.Get(body, "message").String()
		if message == "" {
			message = body
		}
		return "", fmt.Errorf("HTTP %d: %s", status, message)
	}
	return body, nil
}

// runUpload upload a file in chunks, resuming any half-finished session
func runUpload() error {
	if filePath == "" {
		return fmt.Errorf("-file is required")
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	fileName := filepath.Base(filePath)
	fileSize := info.Size()
	lastModified := info.ModTime().UnixMilli()

	// Init or resume the session
	resp, err := req.Post(server+"/api/v1/uploads/init", req.BodyJSON(map[string]interface{}{
		"fileName":     fileName,
		"fileSize":     fileSize,
		"lastModified": lastModified,
	}))
	if err != nil {
		return err
	}
	body, err := apiResult(resp)
	if err != nil {
		return err
	}

	session := gjson.Get(body, "data")
	sessionId := session.Get("uploadId").String()
	sessionKey := session.Get("key").String()
	chunkSize := session.Get("chunkSize").Int()
	totalChunks := int(session.Get("totalChunks").Int())
	completedChunks := int(session.Get("completedChunks").Int())

	if completedChunks > 0 {
		fmt.Printf("Resuming upload %s: %d of %d chunks already stored\n", sessionId, completedChunks, totalChunks)
	} else {
		fmt.Printf("Starting upload %s (%d chunks of %d bytes)\n", sessionId, totalChunks, chunkSize)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	bar := progressbar.NewOptions64(
		fileSize,
		progressbar.OptionSetDescription(fmt.Sprintf("Uploading %s", fileName)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
	)

	// Chunks are sent in order, so a resumed session skips the stored prefix
	if completedChunks > 0 {
		if _, err := file.Seek(int64(completedChunks)*chunkSize, io.SeekStart); err != nil {
			return err
		}
		_ = bar.Add64(int64(completedChunks) * chunkSize)
	}

	buf := make([]byte, chunkSize)
	for n := completedChunks + 1; n <= totalChunks; n++ {
		read, err := io.ReadFull(file, buf)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			// Last chunk is shorter
			err = nil
		}
		if err != nil {
			return err
		}
		if read == 0 {
			break
		}

		if err := uploadChunk(sessionId, sessionKey, n, buf[:read]); err != nil {
			return fmt.Errorf("chunk %d: %w", n, err)
		}
		_ = bar.Add(read)
	}
	fmt.Println()

	// Assemble the final object
	resp, err = req.Post(server+"/api/v1/uploads/complete", req.BodyJSON(map[string]interface{}{
		"uploadId": sessionId,
		"key":      sessionKey,
	}))
	if err != nil {
		return err
	}
	body, err = apiResult(resp)
	if err != nil {
		return err
	}

	fmt.Printf("Upload complete: %s\n", gjson.Get(body, "data.key").String())
	return nil
}

// uploadChunk send one chunk as multipart form data
func uploadChunk(sessionId, sessionKey string, partNumber int, data []byte) error {
	resp, err := req.Post(server+"/api/v1/uploads/chunk",
		req.Param{
			"uploadId":   sessionId,
			"key":        sessionKey,
			"partNumber": strconv.Itoa(partNumber),
		},
		req.FileUpload{
			FieldName: "file",
			FileName:  fmt.Sprintf("part_%d", partNumber),
			File:      io.NopCloser(bytes.NewReader(data)),
		})
	if err != nil {
		return err
	}
	_, err = apiResult(resp)
	return err
}

// runPending print every in-progress upload session
func runPending() error {
	resp, err := req.Get(server + "/api/v1/uploads/pending")
	if err != nil {
		return err
	}
	body, err := apiResult(resp)
	if err != nil {
		return err
	}

	uploads := gjson.Get(body, "data.uploads").Array()
	if len(uploads) == 0 {
		fmt.Println("No pending uploads")
		return nil
	}

	fmt.Printf("%-40s %-28s %10s %14s %s\n", "UPLOAD ID", "FILE", "CHUNKS", "BYTES", "STARTED")
	for _, u := range uploads {
		fmt.Printf("%-40s %-28s %10d %14d %s\n",
			u.Get("uploadId").String(),
			u.Get("fileName").String(),
			u.Get("completedChunks").Int(),
			u.Get("bytesUploaded").Int(),
			u.Get("createdAt").String())
	}
	return nil
}

// runStatus print the progress of one session
func runStatus() error {
	if uploadId == "" {
		return fmt.Errorf("-uploadId is required")
	}

	resp, err := req.Get(server + "/api/v1/uploads/status/" + uploadId)
	if err != nil {
		return err
	}
	body, err := apiResult(resp)
	if err != nil {
		return err
	}

	status := gjson.Get(body, "data")
	fmt.Printf("Upload:    %s\n", status.Get("uploadId").String())
	fmt.Printf("File:      %s\n", status.Get("fileName").String())
	fmt.Printf("Key:       %s\n", status.Get("key").String())
	fmt.Printf("Chunks:    %d stored (%d bytes)\n", status.Get("completedChunks").Int(), status.Get("bytesUploaded").Int())
	fmt.Printf("Started:   %s\n", status.Get("createdAt").String())
	return nil
}

// runAbort drop a session and its stored chunks
func runAbort() error {
	if uploadId == "" || key == "" {
		return fmt.Errorf("-uploadId and -key are required")
	}

	resp, err := req.Post(server+"/api/v1/uploads/abort", req.BodyJSON(map[string]interface{}{
		"uploadId": uploadId,
		"key":      key,
	}))
	if err != nil {
		return err
	}
	if _, err := apiResult(resp); err != nil {
		return err
	}

	fmt.Printf("Aborted upload %s\n", uploadId)
	return nil
}
