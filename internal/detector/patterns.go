package detector

import (
	"regexp"
	"strings"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// signature is one (matcher, increment) entry in an attack profile. Most
// signatures are regular expressions over the raw URL; match is used instead
// where RE2 cannot express the check (no backreferences).
type signature struct {
	name      string
	increment float64
	re        *regexp.Regexp
	match     func(raw string) bool
}

func (s signature) matches(raw string) bool {
	if s.re != nil {
		return s.re.MatchString(raw)
	}
	return s.match(raw)
}

// attackProfile groups an attack type's signature table with the broad
// pattern used to extract a display excerpt when the profile fires.
type attackProfile struct {
	attack     models.AttackType
	excerpt    *regexp.Regexp
	signatures []signature
}

func rx(name string, increment float64, expr string) signature {
	return signature{name: name, increment: increment, re: regexp.MustCompile(expr)}
}

// profiles is the full detection table. Signatures are tested against the
// raw URL string, not a decoded form; explicitly listed percent-encoded
// variants are the only encoded payloads recognised.
var profiles = []attackProfile{
	{
		attack:  models.AttackSQLInjection,
		excerpt: regexp.MustCompile(`(?i)('|%27|\b(union|select)\b).*`),
		signatures: []signature{
			rx("union_select", 0.2, `(?i)union(\s|\+|%20)+(all(\s|\+|%20)+)?select`),
			rx("sql_keyword", 0.2, `(?i)\b(select|insert|update|delete|drop|truncate|declare)\b`),
			rx("quote", 0.2, `'|%27`),
			rx("boolean_logic", 0.2, `(?i)('|%27)(\s|\+|%20)*(or|and)\b`),
			rx("tautology", 0.2, `(?i)\b(or|and)(\s|\+|%20)+('|%27)?\w+('|%27)?(\s|\+|%20)*=`),
			rx("quoted_equals", 0.2, `(?i)=(\s|\+|%20)*('|%27)`),
			rx("comment", 0.2, `--|%2[dD]%2[dD]|/\*|\*/|%23`),
			rx("time_based", 0.2, `(?i)\b(sleep|benchmark|waitfor|pg_sleep)(\s|\+|%20)*\(`),
		},
	},
	{
		attack:  models.AttackXSS,
		excerpt: regexp.MustCompile(`(?i)<.*>|javascript:[^&]*`),
		signatures: []signature{
			rx("script_tag", 0.25, `(?i)<\s*script|%3[cC]script`),
			rx("script_close", 0.25, `(?i)<\s*/\s*script|%3[cC]/script`),
			rx("js_call", 0.25, `(?i)\b(alert|prompt|confirm|eval)(\s|%20)*\(`),
			rx("js_scheme", 0.25, `(?i)javascript:|vbscript:`),
			rx("event_handler", 0.25, `(?i)\bon(error|load|click|mouseover|focus|submit)\s*=`),
			rx("html_injection", 0.25, `(?i)<\s*(img|svg|iframe|body|embed|object)\b`),
		},
	},
	{
		attack:  models.AttackPathTraversal,
		excerpt: regexp.MustCompile(`(?i)(\.\./)+[^?&]*|/etc/\w+`),
		signatures: []signature{
			rx("dotdot", 0.3, `\.\./|\.\.\\`),
			rx("dotdot_encoded", 0.3, `(?i)%2e%2e(%2f|%5c|/)|\.\.%2f`),
			rx("sensitive_file", 0.3, `(?i)/etc/(passwd|shadow|hosts|group)|boot\.ini|win\.ini`),
			rx("system_dir", 0.3, `(?i)/proc/self|/windows/system32|c:\\`),
			rx("repeated_traversal", 0.3, `(\.\./){2,}|(\.\.\\){2,}`),
		},
	},
	{
		attack:  models.AttackCommandInjection,
		excerpt: regexp.MustCompile("(;|\\||`|\\$\\()[^&]*"),
		signatures: []signature{
			rx("separator", 0.25, `;|\||%3[bB]|%7[cC]`),
			rx("backtick_subst", 0.25, "`|%60"),
			rx("dollar_subst", 0.25, `\$\(|%24%28`),
			rx("newline_inject", 0.25, `(?i)%0a|%0d`),
			rx("shell_command", 0.25, `(?i)\b(wget|curl|whoami|ifconfig|ipconfig|netcat|nc|chmod|cat|ping)(\b(\s|\+|%20|;|$))`),
			rx("exec_param", 0.25, `(?i)[?&](cmd|exec|execute|command|run)=`),
		},
	},
	{
		attack:  models.AttackSSRF,
		excerpt: regexp.MustCompile(`(?i)(localhost|127\.0\.0\.1|169\.254\.169\.254|metadata[^&]*)[^&]*`),
		signatures: []signature{
			rx("loopback", 0.3, `(?i)127\.0\.0\.1|localhost|0\.0\.0\.0|\[::1\]`),
			rx("cloud_metadata", 0.3, `(?i)169\.254\.169\.254|metadata\.google|/latest/meta-data`),
			rx("private_ip", 0.3, `(?i)\b10\.\d{1,3}\.\d{1,3}\.\d{1,3}|\b192\.168\.\d{1,3}\.\d{1,3}|\b172\.(1[6-9]|2\d|3[01])\.\d{1,3}\.\d{1,3}`),
			rx("url_param_scheme", 0.3, `(?i)[?&](url|uri|target|dest|redirect|callback|next)=(https?|ftp)(:|%3[aA])`),
			rx("alt_scheme", 0.3, `(?i)[?&][^=&]*=(file|gopher|dict|ldap)(:|%3[aA])`),
		},
	},
	{
		attack:  models.AttackFileInclusion,
		excerpt: regexp.MustCompile(`(?i)[?&](file|page|include|inc|template|doc|path)=[^&]*`),
		signatures: []signature{
			rx("stream_wrapper", 0.3, `(?i)(php|data|expect|zip|phar)://`),
			rx("include_remote", 0.3, `(?i)[?&](file|page|include|inc|template|doc|path)=(https?|ftp)(:|%3[aA])`),
			rx("include_path", 0.3, `(?i)[?&](file|page|include|inc|template|doc|path)=[^&]*(/|%2[fF])`),
			rx("null_byte", 0.3, `%00`),
			rx("script_target", 0.3, `(?i)[?&][^=&]*=[^&]*\.(php|jsp|asp|aspx)(&|$)`),
		},
	},
	{
		attack:  models.AttackCredentialStuffing,
		excerpt: regexp.MustCompile(`(?i)[?&](username|user|email|password|passwd|pass|pwd)=[^&]*`),
		signatures: []signature{
			rx("auth_endpoint", 0.35, `(?i)/(login|signin|signon|authenticate|auth|session)(\.\w+)?(\?|/|$)`),
			rx("user_param", 0.35, `(?i)[?&](username|user|email|login|uid)=`),
			rx("pass_param", 0.35, `(?i)[?&](password|passwd|pass|pwd)=`),
			rx("credential_pair", 0.35, `(?i)[?&](username|user|email|login)=[^&]+&(password|passwd|pass|pwd)=`),
		},
	},
	{
		attack:  models.AttackBruteForce,
		excerpt: regexp.MustCompile(`(?i)/(wp-admin|wp-login|administrator|phpmyadmin|cpanel|login|signin)[^?]*`),
		signatures: []signature{
			rx("admin_panel", 0.3, `(?i)/(wp-admin|wp-login|administrator|phpmyadmin|cpanel|manager/html)(/|\.|\?|$)`),
			rx("default_credential", 0.3, `(?i)[?&](username|user|login|password|passwd|pass|pwd)=(admin|root|toor|test|guest|123456|password)(&|$)`),
			rx("attempt_counter", 0.3, `(?i)[?&](attempt|attempts|try|retry|count)=\d+`),
			rx("login_probe", 0.3, `(?i)/(login|signin)[^?]*\?[^#]*(pass|pwd)=`),
		},
	},
	{
		attack:  models.AttackParamPollution,
		excerpt: regexp.MustCompile(`\?[^#]*`),
		signatures: []signature{
			{name: "duplicate_param", increment: 0.35, match: hasDuplicateParam},
			rx("excessive_params", 0.35, `(?:[?&][^=&]+=[^&]*){10,}`),
			rx("array_abuse", 0.35, `(?i)[?&][^=&]*(\[\]|%5[bB]%5[dD])=`),
		},
	},
	{
		attack:  models.AttackXXE,
		excerpt: regexp.MustCompile(`(?i)(<!|%3[cC]!)(doctype|entity)[^&]*`),
		signatures: []signature{
			rx("doctype_decl", 0.35, `(?i)<!doctype|%3[cC]!doctype`),
			rx("entity_decl", 0.35, `(?i)<!entity|%3[cC]!entity`),
			rx("system_literal", 0.35, `(?i)\bsystem(\s|\+|%20)+('|"|%22|%27)`),
			rx("xml_param", 0.35, `(?i)[?&](xml|xsl|wsdl|soap)=`),
		},
	},
	{
		attack:  models.AttackWebShell,
		excerpt: regexp.MustCompile(`(?i)[^/?&]*\.(php|jsp|asp|aspx)[^&]*`),
		signatures: []signature{
			rx("known_shell", 0.3, `(?i)\b(c99|r57|b374k|wso|weevely|alfa)\b`),
			rx("shell_file", 0.3, `(?i)(shell|backdoor|cmd|upload)\.(php|jsp|asp|aspx)`),
			rx("shell_param", 0.3, `(?i)[?&](cmd|command|exec|shell)=`),
			rx("exec_function", 0.3, `(?i)\b(system|passthru|shell_exec|popen|proc_open|base64_decode)(\(|%28)`),
			rx("upload_script", 0.3, `(?i)/(uploads?|tmp|temp|files)/[^?]*\.(php|jsp|asp)`),
		},
	},
	{
		attack:  models.AttackTyposquatting,
		excerpt: regexp.MustCompile(`(?i)//[^/]+`),
		signatures: []signature{
			rx("punycode_host", 0.3, `(?i)//xn--|\.xn--`),
			rx("digit_substitution", 0.3, `(?i)g00gle|go0gle|paypa1|payp4l|faceb00k|micros0ft|amaz0n|app1e|tw1tter|netfl1x|y0utube`),
			rx("brand_cheap_tld", 0.3, `(?i)(google|paypal|apple|microsoft|amazon|facebook|netflix)[^/]*\.(tk|ml|ga|cf|gq|top|xyz)(/|:|$)`),
			rx("brand_as_subdomain", 0.3, `(?i)(google|paypal|apple|microsoft|amazon|facebook)\.(com|net)[.-][^/]+`),
		},
	},
}

// hasDuplicateParam reports whether any query key appears more than once.
// Implemented as a func matcher because RE2 has no backreferences.
func hasDuplicateParam(raw string) bool {
	idx := strings.IndexByte(raw, '?')
	if idx == -1 || idx == len(raw)-1 {
		return false
	}
	query := raw[idx+1:]
	if frag := strings.IndexByte(query, '#'); frag != -1 {
		query = query[:frag]
	}

	seen := make(map[string]bool)
	for _, pair := range strings.Split(query, "&") {
		key := pair
		if eq := strings.IndexByte(pair, '='); eq != -1 {
			key = pair[:eq]
		}
		if key == "" {
			continue
		}
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}
