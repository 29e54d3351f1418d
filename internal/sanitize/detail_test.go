package sanitize

import (
	"strings"
	"testing"
)

func TestParseHTMLDetailEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		got, err := ParseHTMLDetail(input, DetailPrecedent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ParseHTMLDetail(%q) = %v, want empty map", input, got)
		}
	}
}

func TestParseHTMLDetailPrecedent(t *testing.T) {
	page := `<html><head><title>대법원 2023도1234</title></head><body>
	<h2>손해배상(자)</h2>
	<table>
		<tr><th>선고일자</th><td>2023.05.11</td></tr>
		<tr><th>법원명</th><td>대법원</td></tr>
	</table>
	<div>판결요지</div>
	<div><p>원심판결을 <b>파기</b>하고 사건을 환송한다는 취지의 요지.</p></div>
	</body></html>`

	got, err := ParseHTMLDetail(page, DetailPrecedent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["사건명"] != "손해배상(자)" {
		t.Errorf("사건명 = %q", got["사건명"])
	}
	if got["선고일자"] != "2023.05.11" {
		t.Errorf("선고일자 = %q", got["선고일자"])
	}
	if got["법원명"] != "대법원" {
		t.Errorf("법원명 = %q", got["법원명"])
	}
	if !strings.Contains(got["판결요지"], "파기") {
		t.Errorf("판결요지 = %q", got["판결요지"])
	}
	if strings.Contains(got["판결요지"], "<b>") {
		t.Errorf("판결요지 kept markup: %q", got["판결요지"])
	}
}

func TestParseHTMLDetailInterpretation(t *testing.T) {
	page := `<html><body>
	<h3>건축법 제11조 관련 질의</h3>
	<div>질의요지</div>
	<div>건축허가 의제 범위에 관한 질의입니다.</div>
	<div>회신내용</div>
	<div>의제 대상에 포함된다고 회신합니다.</div>
	</body></html>`

	got, err := ParseHTMLDetail(page, DetailInterpretation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["안건명"] != "건축법 제11조 관련 질의" {
		t.Errorf("안건명 = %q", got["안건명"])
	}
	if !strings.Contains(got["질의요지"], "건축허가") {
		t.Errorf("질의요지 = %q", got["질의요지"])
	}
	if !strings.Contains(got["회신내용"], "회신합니다") {
		t.Errorf("회신내용 = %q", got["회신내용"])
	}
}

func TestParseHTMLDetailGeneric(t *testing.T) {
	body := strings.Repeat("본문 내용입니다. ", 20)
	page := `<html><body>
	<h1>행정규칙 전문</h1>
	<script>var tracking = 1;</script>
	<style>.hidden { display: none; }</style>
	<p>` + body + `</p>
	</body></html>`

	got, err := ParseHTMLDetail(page, DetailGeneric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["제목"] != "행정규칙 전문" {
		t.Errorf("제목 = %q", got["제목"])
	}
	if !strings.Contains(got["내용"], "본문 내용입니다") {
		t.Errorf("내용 = %q", got["내용"])
	}
	if strings.Contains(got["내용"], "tracking") || strings.Contains(got["내용"], "display") {
		t.Errorf("내용 kept script/style text: %q", got["내용"])
	}
}

func TestParseHTMLDetailGenericShortBody(t *testing.T) {
	page := `<html><body><h2>짧은 페이지</h2><p>한 줄.</p></body></html>`
	got, err := ParseHTMLDetail(page, DetailGeneric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["제목"] != "짧은 페이지" {
		t.Errorf("제목 = %q", got["제목"])
	}
	if _, ok := got["내용"]; ok {
		t.Errorf("내용 present for a body under the length floor: %q", got["내용"])
	}
}
