package assets

import "testing"

func TestIsSafeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"正常なパブリックIP", "https://8.8.8.8/favicon.ico", false},

		{"GCSスキーム (gs://) は未対応", "gs://my-bucket/path/to/image.png", true},
		{"不正なスキーム", "gopher://example.com", true},
		{"相対パス", "/images/a.png", true},
		{"ループバック", "http://127.0.0.1/admin", true},
		{"IPv6ループバック", "http://[::1]/admin", true},
		{"プライベートIP (クラスA)", "http://10.255.255.254/metadata", true},
		{"リンクローカル (メタデータサーバー)", "http://169.254.169.254/latest", true},
		{"未指定アドレス", "http://0.0.0.0/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safe, err := IsSafeURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsSafeURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !safe {
				t.Errorf("%s: safe URL was flagged as unsafe", tt.url)
			}
			if tt.wantErr && safe {
				t.Errorf("%s: unsafe URL was flagged as safe", tt.url)
			}
		})
	}
}
