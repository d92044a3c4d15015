package address

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const uspsEndpoint = "https://secure.shippingapis.com/ShippingAPI.dll"

// USPSValidator validates addresses with the USPS Verify API, gated by a
// service-area ZIP whitelist. When USPS is unconfigured or unreachable, an
// in-area ZIP is allowed through with a warning rather than blocking the
// booking.
type USPSValidator struct {
	userID      string
	allowedZips []string
	endpoint    string
	client      *http.Client
	logger      *zap.Logger
}

// NewUSPSValidator creates a USPSValidator. userID may be empty, in which
// case only the service-area check runs.
func NewUSPSValidator(userID string, allowedZips []string, log *zap.Logger) *USPSValidator {
	return &USPSValidator{
		userID:      userID,
		allowedZips: allowedZips,
		endpoint:    uspsEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      log,
	}
}

type uspsRequest struct {
	XMLName  xml.Name    `xml:"AddressValidateRequest"`
	UserID   string      `xml:"USERID,attr"`
	Revision int         `xml:"Revision"`
	Address  uspsAddress `xml:"Address"`
}

type uspsAddress struct {
	ID       string `xml:"ID,attr"`
	Address1 string `xml:"Address1"`
	Address2 string `xml:"Address2"`
	City     string `xml:"City"`
	State    string `xml:"State"`
	Zip5     string `xml:"Zip5"`
	Zip4     string `xml:"Zip4"`
}

type uspsResponse struct {
	XMLName xml.Name `xml:"AddressValidateResponse"`
	Address struct {
		Address2 string `xml:"Address2"`
		City     string `xml:"City"`
		State    string `xml:"State"`
		Zip5     string `xml:"Zip5"`
		Error    *struct {
			Description string `xml:"Description"`
		} `xml:"Error"`
	} `xml:"Address"`
}

// Validate checks field shape, the service area, and finally USPS agreement.
func (v *USPSValidator) Validate(ctx context.Context, in Input) (*Result, error) {
	in, err := Normalize(in)
	if err != nil {
		return nil, err
	}

	if !inServiceArea(in.Zip, v.allowedZips) {
		return nil, serviceAreaError()
	}

	if v.userID == "" {
		v.logger.Warn("USPS user ID not configured, skipping postal validation")
		return &Result{Normalized: in}, nil
	}

	resp, err := v.verify(ctx, in)
	if err != nil {
		// ZIP is in the service area; fail open with a warning instead of
		// blocking the booking on a collaborator outage.
		v.logger.Warn("USPS validation unavailable, allowing in-area address",
			zap.String("zip", in.Zip),
			zap.Error(err),
		)
		return &Result{
			Normalized: in,
			Warning:    "Address could not be verified with USPS, but ZIP is in our service area.",
		}, nil
	}

	if resp.Address.Zip5 != in.Zip {
		return nil, mismatchError("zip")
	}
	if !strings.EqualFold(resp.Address.State, in.State) {
		return nil, mismatchError("state")
	}
	uspsCity := strings.ToUpper(resp.Address.City)
	inCity := strings.ToUpper(in.City)
	if uspsCity != inCity && !strings.HasPrefix(uspsCity, inCity) {
		return nil, mismatchError("city")
	}

	return &Result{Normalized: Input{
		Street: resp.Address.Address2,
		City:   resp.Address.City,
		State:  resp.Address.State,
		Zip:    resp.Address.Zip5,
	}}, nil
}

func (v *USPSValidator) verify(ctx context.Context, in Input) (*uspsResponse, error) {
	reqXML, err := xml.Marshal(uspsRequest{
		UserID:   v.userID,
		Revision: 1,
		Address: uspsAddress{
			ID:       "0",
			Address2: in.Street,
			City:     in.City,
			State:    in.State,
			Zip5:     in.Zip,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build USPS request: %w", err)
	}

	q := url.Values{}
	q.Set("API", "Verify")
	q.Set("XML", string(reqXML))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("USPS request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read USPS response: %w", err)
	}

	var resp uspsResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse USPS response: %w", err)
	}
	if resp.Address.Error != nil {
		return nil, fmt.Errorf("USPS error: %s", resp.Address.Error.Description)
	}
	if resp.Address.Zip5 == "" || resp.Address.City == "" || resp.Address.State == "" {
		return nil, fmt.Errorf("incomplete USPS response")
	}
	return &resp, nil
}
