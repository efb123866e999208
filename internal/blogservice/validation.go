package blogservice

import (
	"fmt"
	"math"
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(strings.TrimSpace(title) != "", "title", "must be provided")
}

func validateURL(v *common.Validator, url string) {
	v.Check(strings.TrimSpace(url) != "", "url", "must be provided")
}

func validateLikes(v *common.Validator, likes int) {
	v.Check(likes >= 0, "likes", "must not be negative")
	// likes is an integer column
	v.Check(likes <= math.MaxInt32, "likes", fmt.Sprintf("must not be greater than %d", math.MaxInt32))
}

func validateUpdate(v *common.Validator, req *UpdateBlogRequest) {
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}

	if req.URL != nil {
		validateURL(v, *req.URL)
	}

	if req.Likes != nil {
		validateLikes(v, *req.Likes)
	}
}
