package html

import (
	"bytes"
	"html/template"
)

// Names shared by the CSRF middleware and the page script.
const (
	CSRFCookieName = "X-CSRF-Token"
	CSRFHeaderName = "X-CSRF-Token"
	CSRFFormField  = "_csrf"
)

var formScriptTemplate = template.Must(template.New("form-script").Parse(`<script>
(function () {
  var cookieName = {{.Cookie}};
  var fieldName = {{.Field}};

  function readCookie() {
    var prefix = cookieName + "=";
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(prefix) === 0) return decodeURIComponent(c.substring(prefix.length));
    }
    return "";
  }

  function prepare(form) {
    if ((form.getAttribute("method") || "GET").toUpperCase() !== "POST") return;
    form.addEventListener("submit", function () {
      var token = readCookie();
      if (token && !form.querySelector("input[name='" + fieldName + "']")) {
        var input = document.createElement("input");
        input.type = "hidden";
        input.name = fieldName;
        input.value = token;
        form.appendChild(input);
      }
      var buttons = form.querySelectorAll("button[type='submit']");
      for (var i = 0; i < buttons.length; i++) {
        if (buttons[i].dataset.busy) buttons[i].textContent = buttons[i].dataset.busy;
        buttons[i].disabled = true;
      }
    });
  }

  function init() {
    var forms = document.querySelectorAll("form");
    for (var i = 0; i < forms.length; i++) prepare(forms[i]);
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", init);
  } else {
    init();
  }
})();
</script>`))

// CSRFFormScript adds the CSRF field to POST forms at submit time and
// disables their submit buttons until the response arrives. A button's
// data-busy attribute replaces its label meanwhile.
func CSRFFormScript() template.HTML {
	var buf bytes.Buffer
	_ = formScriptTemplate.Execute(&buf, struct{ Cookie, Field string }{CSRFCookieName, CSRFFormField})
	return template.HTML(buf.String())
}
