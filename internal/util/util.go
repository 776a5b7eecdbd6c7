package util

import (
	"context"
	"crypto/rand"
	"io"
	"io/ioutil"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/nats-io/nuid"
	"github.com/pkg/errors"
	hashids "github.com/speps/go-hashids"
)

// FetchTimeout bounds a whole Fetch round trip; local language models
// can take tens of seconds to answer.
const FetchTimeout = 120 * time.Second

var (
	once      sync.Once
	netClient *http.Client
)

//
// create a singleton http client to ensure
// maximum reuse of connection
//
func newNetClient() *http.Client {
	once.Do(func() {
		var netTransport = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		netClient = &http.Client{
			Timeout:   FetchTimeout,
			Transport: netTransport,
		}
	})

	return netClient
}

//
// generate a short useful unique name - hashid in this case
//
func GenerateName() string {

	name := "assessor"

	number0, err := rand.Int(rand.Reader, big.NewInt(10000000))
	if err != nil {
		log.Warn("error auto-generating name: ", err)
		return name
	}

	hd := hashids.NewData()
	hd.Salt = "procurement-maturity random name generator"
	hd.MinLength = 5
	h, err := hashids.NewWithData(hd)
	if err != nil {
		log.Warn("error auto-generating name: ", err)
		return name
	}
	e, err := h.EncodeInt64([]int64{number0.Int64()})
	if err != nil {
		log.Warn("error encoding auto-generated name: ", err)
		return name
	}

	return e
}

//
// generate a unique id - nuid in this case
//
func GenerateID() string {
	return nuid.Next()
}

//
// Makes network calls to other services (the language model server),
// and returns the response payload as bytes, or an error
//
// method - http method to invoke (post/put/get etc.)
// header - map of headers to include in request
// body - reader for any content to supply as request body
//
func Fetch(ctx context.Context, method string, url string, header map[string]string, body io.Reader) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build Fetch request")
	}

	for key, value := range header {
		req.Header.Add(key, value)
	}

	res, err := newNetClient().Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot reach %s", url)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Network call failed with response: %d", res.StatusCode)
	}

	respByte, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read Fetch response")
	}

	return respByte, nil
}

//
// small utility function embedded in major ops
// to print a performance indicator.
//
func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	log.Infof("%s took %s", name, elapsed.Truncate(time.Millisecond).String())
}

//
// find an available tcp port
//
func AvailablePort() (int, error) {

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire a tcp port")
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port, nil
}
